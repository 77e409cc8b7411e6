package service

import (
	"context"
	"testing"

	"classhub/internal/domain"
	"classhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClassroom(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	svc := e.classrooms()

	in := CreateClassroomInput{Name: " Calculus ", Subject: "Mathematics", Language: "English"}
	_, err := svc.Create(ctx, Actor{UserID: student.ID, Role: domain.RoleStudent}, in)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Create(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, CreateClassroomInput{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := svc.Create(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, in)
	require.NoError(t, err)
	assert.Equal(t, "Calculus", c.Name)
	assert.True(t, c.IsActive)
	assert.Equal(t, teacher.ID, c.TeacherID)

	mine, err := svc.Mine(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher})
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestEnroll(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	alex := e.user(t, "alex", domain.RoleStudent)
	maria := e.user(t, "maria", domain.RoleStudent)
	one := 1
	svc := e.classrooms()
	c, err := svc.Create(ctx, Actor{UserID: teacher.ID, Role: domain.RoleTeacher}, CreateClassroomInput{Name: "Small", Subject: "Art", Language: "English", MaxStudents: &one})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, 0, c.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	enr, err := svc.Enroll(ctx, alex.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentActive, enr.Status)

	_, err = svc.Enroll(ctx, alex.ID, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Enroll(ctx, maria.ID, c.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Enroll(ctx, maria.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.Mine(ctx, Actor{UserID: alex.ID, Role: domain.RoleStudent})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, c.ID, mine[0].ID)

	d, err := svc.Details(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.EnrollmentCount)
	require.NotNil(t, d.Teacher)
	assert.Equal(t, teacher.ID, d.Teacher.ID)
}

func TestEnrollInactiveClassroom(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	c := e.classroom(t, teacher.ID)
	require.NoError(t, e.db.Model(&models.Classroom{}).Where("id = ?", c.ID).Update("is_active", false).Error)

	_, err := e.classrooms().Enroll(ctx, student.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	avail, err := e.classrooms().Available(ctx)
	require.NoError(t, err)
	assert.Empty(t, avail)
}
