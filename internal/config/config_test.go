package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "hpdctl.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Default()
	if cfg.HPD.Backend != def.HPD.Backend || cfg.HPD.Device != def.HPD.Device {
		t.Fatalf("cfg=%+v want defaults", cfg.HPD)
	}
	if len(cfg.HPD.Ports) != 3 {
		t.Fatalf("ports=%d want 3", len(cfg.HPD.Ports))
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "hpd: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HPD.Backend != "mem" {
		t.Fatalf("backend=%q want mem", cfg.HPD.Backend)
	}
	if cfg.HPD.Device != "/dev/mem" {
		t.Fatalf("device=%q want /dev/mem", cfg.HPD.Device)
	}
	if cfg.HPD.RTThresholdUsec != 50000 {
		t.Fatalf("rt_threshold_us=%d want 50000", cfg.HPD.RTThresholdUsec)
	}
	if cfg.HPD.DefaultPort != "hdmi" {
		t.Fatalf("default_port=%q want hdmi", cfg.HPD.DefaultPort)
	}
	hdmi, ok := cfg.HPD.Ports["hdmi"]
	if !ok {
		t.Fatalf("expected default hdmi port")
	}
	if hdmi.Address != 0xff21a00c || hdmi.Mask != 0x1 {
		t.Fatalf("hdmi=%+v want address 0xff21a00c mask 0x1", hdmi)
	}
}

func TestLoad_HexAddressesParsed(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  ports:\n    hdmi: {address: 0xff21a00c, mask: 0x2}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	hdmi := cfg.HPD.Ports["hdmi"]
	if hdmi.Address != 0xff21a00c || hdmi.Mask != 0x2 {
		t.Fatalf("hdmi=%+v", hdmi)
	}
}

func TestLoad_PortsOverrideReplacesDefaults(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  default_port: hdmi\n  ports:\n    hdmi: {address: 0x1000, mask: 0x1}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.HPD.Ports) != 1 {
		t.Fatalf("ports=%d want 1", len(cfg.HPD.Ports))
	}
}

func TestLoad_BackendValidated(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  backend: sysfs\n")
	_, err := Load(path)
	requireErrEq(t, err, "hpd.backend must be 'mem' or 'gpiod'")
}

func TestLoad_MemPortRequiresAddress(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  ports:\n    hdmi: {mask: 0x1}\n")
	_, err := Load(path)
	requireErrEq(t, err, "hpd.ports.hdmi.address is required when hpd.backend is 'mem'")
}

func TestLoad_MemPortRequiresMask(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  ports:\n    hdmi: {address: 0xff21a00c}\n")
	_, err := Load(path)
	requireErrEq(t, err, "hpd.ports.hdmi.mask is required when hpd.backend is 'mem'")
}

func TestLoad_GpiodPortRequiresLine(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  backend: gpiod\n  default_port: hdmi\n  ports:\n    hdmi: {address: 0xff21a00c, mask: 0x1}\n")
	_, err := Load(path)
	requireErrEq(t, err, "hpd.ports.hdmi.line is required when hpd.backend is 'gpiod'")
}

func TestLoad_GpiodPortAcceptsLineName(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  backend: gpiod\n  default_port: hdmi\n  ports:\n    hdmi: {line: HPD_HDMI}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HPD.Ports["hdmi"].Line != "HPD_HDMI" {
		t.Fatalf("line=%q want HPD_HDMI", cfg.HPD.Ports["hdmi"].Line)
	}
}

func TestLoad_DefaultPortMustExist(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  default_port: vga\n")
	_, err := Load(path)
	requireErrEq(t, err, `hpd.default_port "vga" is not a configured port`)
}

func TestLoad_NegativeRTThresholdRejected(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  rt_threshold_us: -1\n")
	_, err := Load(path)
	requireErrEq(t, err, "hpd.rt_threshold_us must not be negative")
}

func TestLoad_ZeroRTThresholdMeansDefault(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  rt_threshold_us: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HPD.RTThresholdUsec != 50000 {
		t.Fatalf("rt_threshold_us=%d want 50000", cfg.HPD.RTThresholdUsec)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, "hpd:\n  bogus: 1\n")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "config contains unknown fields") {
		t.Fatalf("error=%q want unknown-field rejection", err.Error())
	}
}
