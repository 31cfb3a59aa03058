package account

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/state"
)

var authConfig = auth.Config{Secret: "test-secret", Issuer: "gymfit.test"}

func newService(t *testing.T) (*Service, *state.Store) {
	t.Helper()
	store := state.New()
	t.Cleanup(store.Close)
	return NewService(store, auth.NewIssuer(authConfig, time.Hour)), store
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newService(t)

	session, err := svc.Login(context.Background(), "alex.johnson@email.com", "anything")
	require.NoError(t, err)

	claims, err := auth.Parse(session.Token.AccessToken, authConfig)
	require.NoError(t, err)
	require.Equal(t, session.User.Email, claims.Subject)
	require.True(t, claims.HasScope(auth.ScopeAppWrite))
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "not-an-email", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alex.johnson@email.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsOtherEmails(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "someone.else@example.com", "anything")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.Login(ctx, "Alex.Johnson@email.com", "anything")
	require.NoError(t, err)
	require.Equal(t, store.User().Email, session.User.Email)
}

func TestSignupIsClosedOncePasswordSet(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Sam", "sam@gymfit.app", "longenough", "longenough")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Mallory", "mallory@evil.example", "takeover1", "takeover1")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.Equal(t, "Sam", store.User().Name)
	require.Equal(t, "sam@gymfit.app", store.User().Email)

	_, err = svc.Login(ctx, "mallory@evil.example", "takeover1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "sam@gymfit.app", "takeover1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "sam@gymfit.app", "longenough")
	require.NoError(t, err)
}

func TestSignupIsClosedAfterPasswordChange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.ChangePassword(ctx, "anything", "newpassword", "newpassword"))
	_, err := svc.Signup(ctx, "Sam", "sam@gymfit.app", "longenough", "longenough")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSignupUpdatesProfile(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Sam", "sam@gymfit.app", "longenough", "different1")
	require.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = svc.Signup(ctx, "Sam", "sam@gymfit.app", "short", "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	session, err := svc.Signup(ctx, " Sam ", "sam@gymfit.app", "longenough", "longenough")
	require.NoError(t, err)
	require.Equal(t, "Sam", session.User.Name)
	require.Equal(t, "sam@gymfit.app", store.User().Email)
}

func TestChangePasswordAndEmail(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.ChangePassword(ctx, "old", "newpassword", "newpassw0rd"), ErrPasswordMismatch)
	require.ErrorIs(t, svc.ChangePassword(ctx, "", "newpassword", "newpassword"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, "old", "newpassword", "newpassword"))

	_, err := svc.ChangeEmail(ctx, "alex@new.example", "old")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	user, err := svc.ChangeEmail(ctx, "alex@new.example", "newpassword")
	require.NoError(t, err)
	require.Equal(t, "alex@new.example", user.Email)
	require.Equal(t, "alex@new.example", store.User().Email)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alex@new.example"))
	require.ErrorIs(t, svc.RequestPasswordReset(ctx, " "), ErrInvalidCredentials)
}

func TestPasswordIsCheckedOnceSet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Sam", "sam@gymfit.app", "longenough", "longenough")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "sam@gymfit.app", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "sam@gymfit.app", "longenough")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, "wrong-password", "another-one", "another-one"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, "longenough", "another-one", "another-one"))
	_, err = svc.Login(ctx, "sam@gymfit.app", "another-one")
	require.NoError(t, err)
}

func TestRegenerateBackupCodes(t *testing.T) {
	svc, _ := newService(t)

	before := svc.BackupCodes()
	require.Len(t, before, 8)

	codes, err := svc.RegenerateBackupCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 8)
	require.Equal(t, codes, svc.BackupCodes())

	pattern := regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	for _, code := range codes {
		require.Regexp(t, pattern, code)
		require.NotContains(t, before, code)
	}
}

func TestExport(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, kind := range []string{ExportProfile, ExportWorkouts, ExportMessages, ExportAchievements} {
		body, err := svc.Export(ctx, kind)
		require.NoError(t, err, kind)
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &doc), kind)
		require.NotEmpty(t, doc)
	}

	_, err := svc.Export(ctx, "photos")
	require.ErrorIs(t, err, ErrUnknownExport)
}
