package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

func contactParams(name string) UserParamsRequest {
	contactName := "Pedro Lopez"
	contactPhone := "555-0100"
	return UserParamsRequest{
		FullName:               name,
		EmergencyContact1Name:  &contactName,
		EmergencyContact1Phone: &contactPhone,
	}
}

func TestCreateUser_DefaultsActive(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.CreateUser(context.Background(), contactParams("Maria Lopez"))
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", user.FullName)
	assert.Equal(t, "active", user.Status)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := NewUserService(newFakeUsersRepo(), zap.NewNop())

	_, err := svc.CreateUser(context.Background(), contactParams("  "))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// Missing emergency contact.
	_, err = svc.CreateUser(context.Background(), UserParamsRequest{FullName: "Maria Lopez"})
	require.Error(t, err)
	assert.Contains(t, domain.FieldsOf(err), "emergency_contact_1")

	badEmail := "not-an-email"
	p := contactParams("X")
	p.Email = &badEmail
	_, err = svc.CreateUser(context.Background(), p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	badDate := "01/06/1950"
	p = contactParams("X")
	p.BirthDate = &badDate
	_, err = svc.CreateUser(context.Background(), p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	p = contactParams("X")
	p.Status = "archived"
	_, err = svc.CreateUser(context.Background(), p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUpdateUser_Unknown(t *testing.T) {
	svc := NewUserService(newFakeUsersRepo(), zap.NewNop())

	_, err := svc.UpdateUser(context.Background(), 99, UserParamsRequest{FullName: "X"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.CreateUser(context.Background(), contactParams("Maria Lopez"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	err = svc.DeleteUser(context.Background(), user.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
