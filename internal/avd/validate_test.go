package avd

import (
	"strings"
	"testing"

	"github.com/emuforge/emuforge-core/internal/inifile"
	"github.com/emuforge/emuforge-core/internal/target"
)

func TestComputeStatusPriorityOrder(t *testing.T) {
	_, catalog := newTestInstall(t)
	tgt, _ := catalog.TargetFromHash("android-7")

	props := inifile.New()
	props.Set(ConfigKeyImageDir1, "platforms/android-7/images/")

	tests := []struct {
		name           string
		dataPath       string
		configReadable bool
		targetHash     string
		target         target.Target
		props          *inifile.Properties
		imageDirsOK    bool
		want           Status
	}{
		{
			name: "no data path wins over everything",
			// All later checks would also fail; the first rule must win.
			want: StatusErrPath,
		},
		{
			name:     "unreadable config",
			dataPath: "/data/x.avd",
			want:     StatusErrConfig,
		},
		{
			name:           "missing target hash",
			dataPath:       "/data/x.avd",
			configReadable: true,
			want:           StatusErrTargetHash,
		},
		{
			name:           "unresolved target",
			dataPath:       "/data/x.avd",
			configReadable: true,
			targetHash:     "android-99",
			want:           StatusErrTarget,
		},
		{
			name:           "unparsable properties",
			dataPath:       "/data/x.avd",
			configReadable: true,
			targetHash:     "android-7",
			target:         tgt,
			want:           StatusErrProperties,
		},
		{
			name:           "missing image directory",
			dataPath:       "/data/x.avd",
			configReadable: true,
			targetHash:     "android-7",
			target:         tgt,
			props:          props,
			want:           StatusErrImageDir,
		},
		{
			name:           "all checks pass",
			dataPath:       "/data/x.avd",
			configReadable: true,
			targetHash:     "android-7",
			target:         tgt,
			props:          props,
			imageDirsOK:    true,
			want:           StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeStatus(tt.dataPath, tt.configReadable, tt.targetHash, tt.target, tt.props, tt.imageDirsOK)
			if got != tt.want {
				t.Errorf("computeStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusErrPath, "error-path"},
		{StatusErrConfig, "error-config"},
		{StatusErrTargetHash, "error-target-hash"},
		{StatusErrTarget, "error-target"},
		{StatusErrProperties, "error-properties"},
		{StatusErrImageDir, "error-image-dir"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusTextMentionsName(t *testing.T) {
	statuses := []Status{
		StatusOK, StatusErrPath, StatusErrConfig, StatusErrTargetHash,
		StatusErrTarget, StatusErrProperties, StatusErrImageDir,
	}
	for _, s := range statuses {
		info := NewInfo("pixel", "/data/pixel.avd", "android-7", nil, nil, s)
		text := StatusText(info)
		if !strings.Contains(text, "pixel") {
			t.Errorf("StatusText for %v should mention the name: %q", s, text)
		}
	}
}
