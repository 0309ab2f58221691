package filelocation

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/dlib/dlog"
)

func TestUserDirs(t *testing.T) {
	type testcase struct {
		InputGOOS string
		InputHOME string
		InputEnv  map[string]string

		ExpectedHomeDir   string
		ExpectedCacheDir  string
		ExpectedConfigDir string
	}
	testcases := map[string]testcase{
		"linux": {
			InputGOOS:         "linux",
			InputEnv:          map[string]string{"HOME": "/realhome"},
			ExpectedHomeDir:   "/realhome",
			ExpectedCacheDir:  "/realhome/.cache",
			ExpectedConfigDir: "/realhome/.config",
		},
		"linux-withhome": {
			InputGOOS:         "linux",
			InputHOME:         "/testhome",
			InputEnv:          map[string]string{"HOME": "/realhome"},
			ExpectedHomeDir:   "/testhome",
			ExpectedCacheDir:  "/testhome/.cache",
			ExpectedConfigDir: "/testhome/.config",
		},
		"linux-xdg": {
			InputGOOS: "linux",
			InputEnv: map[string]string{
				"HOME":            "/realhome",
				"XDG_CACHE_HOME":  "/realhome/xdg-cache",
				"XDG_CONFIG_HOME": "/realhome/xdg-config",
			},
			ExpectedHomeDir:   "/realhome",
			ExpectedCacheDir:  "/realhome/xdg-cache",
			ExpectedConfigDir: "/realhome/xdg-config",
		},
		"darwin": {
			InputGOOS:         "darwin",
			InputEnv:          map[string]string{"HOME": "/realhome"},
			ExpectedHomeDir:   "/realhome",
			ExpectedCacheDir:  "/realhome/Library/Caches",
			ExpectedConfigDir: "/realhome/Library/Application Support",
		},
	}

	origEnv := os.Environ()
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			if runtime.GOOS == "windows" {
				t.Skip("paths in this table are POSIX-shaped")
			}
			ctx := dlog.NewTestContext(t, true)
			defer func() {
				os.Clearenv()
				for _, kv := range origEnv {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) == 2 {
						os.Setenv(parts[0], parts[1])
					}
				}
			}()

			ctx = WithGOOS(ctx, tcData.InputGOOS)
			if tcData.InputHOME != "" {
				ctx = WithUserHomeDir(ctx, tcData.InputHOME)
			}
			os.Clearenv()
			for k, v := range tcData.InputEnv {
				os.Setenv(k, v)
			}

			assert.Equal(t, tcData.ExpectedHomeDir, UserHomeDir(ctx))
			assert.Equal(t, tcData.ExpectedCacheDir, userCacheDir(ctx))
			assert.Equal(t, tcData.ExpectedConfigDir, UserConfigDir(ctx))
		})
	}
}

func TestAppDirs(t *testing.T) {
	ctx := dlog.NewTestContext(t, true)
	ctx = WithGOOS(ctx, "linux")
	ctx = WithUserHomeDir(ctx, "/home/u")
	os.Unsetenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CONFIG_HOME")
	assert.Equal(t, filepath.Join("/home/u", ".cache", "props-sh"), AppUserCacheDir(ctx, "props-sh"))
	assert.Equal(t, filepath.Join("/home/u", ".config", "props-sh"), AppUserConfigDir(ctx, "props-sh"))
}
