package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitfleet/internal/utils/path"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator)+"home", "operator")
	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "bare_tilde", candidate: "~", expectedPath: homeDirectory},
		{name: "tilde_prefix", candidate: "~/projects", expectedPath: filepath.Join(homeDirectory, "projects")},
		{name: "nested_path", candidate: "~/work/projects", expectedPath: filepath.Join(homeDirectory, "work", "projects")},
		{name: "absolute_path", candidate: "/srv/projects", expectedPath: "/srv/projects"},
		{name: "relative_path", candidate: "projects", expectedPath: "projects"},
		{name: "other_user", candidate: "~alice/projects", expectedPath: "~alice/projects"},
		{name: "empty", candidate: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return homeDirectory, nil
			})
			require.Equal(subTest, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}

func TestHomeExpanderLooksUpHomeOnce(testInstance *testing.T) {
	lookups := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		lookups++
		return "/home/operator", nil
	})

	expander.Expand("~/a")
	expander.Expand("~/b")
	require.Equal(testInstance, 1, lookups)
}

func TestHomeExpanderKeepsPathWhenHomeUnavailable(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("home directory unavailable")
	})
	require.Equal(testInstance, "~/projects", expander.Expand("~/projects"))
}
