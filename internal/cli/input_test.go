package cli

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetSecret("Enter access code", &out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadMemberCSV(t *testing.T) {
	path := writeTempCSV(t, "Kim,KIM001\nLee\n,\nPark,PARK01\n")

	rows, err := readMemberCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Kim", rows[0].Name)
	require.Equal(t, "KIM001", rows[0].EntranceCode)
	require.Equal(t, "Lee", rows[1].Name)
	require.Empty(t, rows[1].EntranceCode)
	require.Equal(t, "Park", rows[2].Name)
}

func TestReadCredentialCSV(t *testing.T) {
	path := writeTempCSV(t, "Kim,kim01,s3cret\nLee,lee01\n")

	rows, err := readCredentialCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Kim", rows[0].MemberName)
	require.Equal(t, "kim01", rows[0].Username)
	require.Equal(t, "s3cret", rows[0].Password)
	require.Empty(t, rows[1].Password)
}
