package config

import "testing"

func TestGetDefaultsAppliedByLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TUI.ToolSyntax != "native" {
		t.Fatalf("tool_syntax=%q, want %q", cfg.TUI.ToolSyntax, "native")
	}
	if cfg.TUI.SandboxPolicy != "workspace-write" {
		t.Fatalf("sandbox_policy=%q, want %q", cfg.TUI.SandboxPolicy, "workspace-write")
	}
	if !cfg.TUI.DiffBlockRendering {
		t.Fatalf("diff_block_rendering=false, want true")
	}
	if !cfg.TUI.ShowWelcomeBanner {
		t.Fatalf("show_welcome_banner=false, want true")
	}
}

func TestGetConfigDirHonorsXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir: %v", err)
	}
	want := tmp + "/term-llm"
	if dir != want {
		t.Fatalf("dir=%q, want %q", dir, want)
	}
}
