// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/subsystem"
	"github.com/bjoernbethge/infinibuild/internal/testutil"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		cfg            config.BuildConfiguration
		family         platform.Family
		populated      bool
		args           []string
		wantSync       SyncAction
		wantSubsystems []subsystem.Subsystem
		wantExtensions int
		wantNotice     bool
	}{
		{
			name:           "default build_ext with missing submodule",
			cfg:            config.Default(),
			family:         platform.FamilyPOSIX,
			args:           []string{"build_ext"},
			wantSync:       SyncActionFetch,
			wantSubsystems: []subsystem.Subsystem{subsystem.Terrain},
			wantExtensions: 1,
		},
		{
			name:           "everything enabled and populated",
			cfg:            config.New(false, true, true, true),
			family:         platform.FamilyPOSIX,
			populated:      true,
			args:           []string{"develop"},
			wantSync:       SyncActionNone,
			wantSubsystems: []subsystem.Subsystem{subsystem.Terrain, subsystem.Renderer},
			wantExtensions: 2,
		},
		{
			name:     "minimal install",
			cfg:      config.New(true, true, true, true),
			family:   platform.FamilyPOSIX,
			args:     []string{"build_ext"},
			wantSync: SyncActionSkip,
		},
		{
			name:     "packaging only",
			cfg:      config.Default(),
			family:   platform.FamilyPOSIX,
			args:     []string{"bdist"},
			wantSync: SyncActionSkip,
			// bdist is not administrative, so the subsystems still build
			wantSubsystems: []subsystem.Subsystem{subsystem.Terrain},
			wantExtensions: 1,
		},
		{
			name:       "windows",
			cfg:        config.New(false, true, true, true),
			family:     platform.FamilyWindows,
			populated:  true,
			args:       []string{"build_ext"},
			wantSync:   SyncActionNone,
			wantNotice: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := testutil.NewFakeRunner()

			report, err := Plan(context.Background(), options(newProject(t, tt.populated), fake, tt.cfg, tt.family, tt.args...))
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if len(fake.Calls()) != 0 {
				t.Errorf("Plan() executed %q, want nothing", fake.Lines())
			}

			if report.Sync.Action != tt.wantSync {
				t.Errorf("sync action = %q, want %q", report.Sync.Action, tt.wantSync)
			}
			var got []subsystem.Subsystem
			for _, s := range report.Subsystems {
				got = append(got, s.Subsystem)
			}
			if !slices.Equal(got, tt.wantSubsystems) {
				t.Errorf("subsystems = %v, want %v", got, tt.wantSubsystems)
			}
			if len(report.Extensions) != tt.wantExtensions {
				t.Errorf("extensions = %d, want %d", len(report.Extensions), tt.wantExtensions)
			}
			if hasNotice := slices.Contains(report.Notices, subsystem.WindowsNotice); hasNotice != tt.wantNotice {
				t.Errorf("windows notice = %v, want %v", hasNotice, tt.wantNotice)
			}
		})
	}
}

func TestPlan_FetchListsMissing(t *testing.T) {
	t.Parallel()

	report, err := Plan(context.Background(), options(newProject(t, false), testutil.NewFakeRunner(), config.Default(), platform.FamilyPOSIX, "build_ext"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(report.Sync.Missing) != 1 || report.Sync.Missing[0].Path != "deps/opengl" {
		t.Errorf("missing = %+v, want deps/opengl", report.Sync.Missing)
	}
}

func TestPlan_MissingSubcommand(t *testing.T) {
	t.Parallel()

	_, err := Plan(context.Background(), options(newProject(t, false), testutil.NewFakeRunner(), config.Default(), platform.FamilyPOSIX))
	if !errors.Is(err, issue.ErrConfiguration) {
		t.Errorf("Plan() error = %v, want ErrConfiguration", err)
	}
}
