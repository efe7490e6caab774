package auth

import (
	"testing"

	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/stretchr/testify/require"
)

func TestRoleCode_Mapping(t *testing.T) {
	require.Equal(t, token.RoleCodeStudent, RoleCode(RoleStudent))
	require.Equal(t, token.RoleCodeAdmin, RoleCode(RoleAdmin))
	require.Equal(t, token.RoleCodeInstructor, RoleCode(RoleInstructor))
}

func TestRoleFromCode_RoundTrip(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleInstructor, RoleAdmin} {
		require.Equal(t, role, RoleFromCode(RoleCode(role)))
	}
}

func TestRoleFromCode_UnknownFallsBackToStudent(t *testing.T) {
	require.Equal(t, RoleStudent, RoleFromCode(99))
	require.Equal(t, RoleStudent, RoleFromCode(-1))
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleStudent.Valid())
	require.True(t, RoleInstructor.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("SUPERUSER").Valid())
	require.False(t, Role("").Valid())
}

func TestValidateRegister_PasswordPolicy(t *testing.T) {
	fe := validateRegister(RegisterInput{
		Email:    "alice@student.com",
		Password: "short",
		Name:     "Alice",
	})
	require.NotNil(t, fe)
	require.NotEmpty(t, fe["password"])

	fe = validateRegister(RegisterInput{
		Email:    "alice@student.com",
		Password: "Str0ng!pass",
		Name:     "Alice",
	})
	require.Nil(t, fe)
}

func TestValidateLogin_RequiresValidEmail(t *testing.T) {
	fe := validateLogin(LoginInput{Email: "not-an-email", Password: "whatever1!"})
	require.NotNil(t, fe)
	require.NotEmpty(t, fe["email"])

	fe = validateLogin(LoginInput{Email: "alice@student.com", Password: "whatever1!"})
	require.Nil(t, fe)
}
