package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartclass/classvault/internal/common"
	"github.com/smartclass/classvault/internal/models"
)

// captureOutput swaps printlnFn for a recorder for one test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	var lines []string
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprint(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func memberApp(t *testing.T) *App {
	t.Helper()
	app := NewApp(nil, nil)
	kim := &models.Member{ID: "m1", DisplayName: "Kim", EntranceCode: "LION77"}
	st := models.DefaultState()
	st.TenantCode = "3-1"
	st.Members = []models.Member{*kim, {ID: "m2", DisplayName: "Lee", EntranceCode: "TIGER9"}}
	st.Resources = []models.Resource{{ID: "r1", Name: "FoxLearn", URL: "https://fox.example"}}
	st.Credentials = []models.Credential{
		{ID: "c1", ResourceID: "r1", MemberID: "m1", Username: "kim01", Password: "pw1"},
		{ID: "c2", ResourceID: "r1", MemberID: "m2", Username: "lee01", Password: "pw2"},
	}
	app.sess = &models.Session{Role: models.RoleMember, TenantCode: "3-1", Member: kim, State: st}
	return app
}

func TestHandlers_LoggedOut(t *testing.T) {
	app := NewApp(nil, nil)
	ctx := context.Background()

	// Commands typed before login are rejected with a message, never a
	// panic on the absent session.
	require.ErrorIs(t, app.ListMembers(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.ListResources(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.ListCredentials(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.AddMember(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.ImportMembers(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.DeleteMember(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.AddResource(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.DeleteResource(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.AddCredential(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.ImportCredentials(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.DeleteCredential(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.RotateCode(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.ChangeCode(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.Export(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.Invite(ctx), errNotLoggedIn)
	require.ErrorIs(t, app.Reset(ctx), errNotLoggedIn)
}

func TestListMembers_MemberRoleRefused(t *testing.T) {
	app := memberApp(t)
	lines := captureOutput(t)

	require.ErrorIs(t, app.ListMembers(context.Background()), common.ErrOwnerOnly)
	require.Empty(t, *lines)
}

func TestListMembers_Owner(t *testing.T) {
	app := memberApp(t)
	app.sess.Role = models.RoleOwner
	app.sess.Member = nil
	lines := captureOutput(t)

	require.NoError(t, app.ListMembers(context.Background()))
	require.Len(t, *lines, 2)
	require.Contains(t, (*lines)[0], "LION77")
	require.Contains(t, (*lines)[1], "TIGER9")
}

func TestListCredentials_MemberSeesOwnRowsOnly(t *testing.T) {
	app := memberApp(t)
	lines := captureOutput(t)

	require.NoError(t, app.ListCredentials(context.Background()))
	require.Len(t, *lines, 1)
	require.Contains(t, (*lines)[0], "kim01")
	require.NotContains(t, strings.Join(*lines, "\n"), "lee01")
}

func TestListCredentials_OwnerSeesAll(t *testing.T) {
	app := memberApp(t)
	app.sess.Role = models.RoleOwner
	app.sess.Member = nil
	lines := captureOutput(t)

	require.NoError(t, app.ListCredentials(context.Background()))
	require.Len(t, *lines, 2)
}
