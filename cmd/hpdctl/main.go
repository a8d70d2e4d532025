package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"hpdctl/internal/config"
	"hpdctl/internal/hpd"
)

const usageText = `command

Commands:
  status                  - Shows the HPD status.
  plug                    - Assert HPD line to high, emulating a plug.
  unplug                  - Deassert HPD line to low, emulating an unplug.
  repeat_pulse TD TA C EL - Repeat multiple HPD pulse (L->H->L->...).
                        TD: The time in usec of the deassert pulse.
                        TA: The time in usec of the assert pulse.
                         C: The repeat count.
                        EL: End level: 0 for LOW or 1 for HIGH.
  pulse W1 [W2 ...]       - Fire HPD pulses of mixed widths, starting at low.
                        Wn: Segment widths in msec, alternating low/high.

Flags:
  -config path            - Board config file (default hpdctl.yaml).
  -port name              - Video input port to drive (default from config).
`

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: hpdctl [flags] %s", usageText)
}

// device is what run needs from the HPD controller; hpd.Controller
// implements it, tests substitute a fake through openDeviceFn.
type device interface {
	Plugged() (bool, error)
	Plug() error
	Unplug() error
	RepeatPulse(hpd.PulseParams) error
	FirePulses([]time.Duration) error
	Close() error
}

var openDeviceFn = openDevice

func openDevice(cfg config.Config, port string) (device, error) {
	p := cfg.HPD.Ports[port]
	return hpd.New(hpd.Config{
		Backend:     cfg.HPD.Backend,
		Device:      cfg.HPD.Device,
		Address:     p.Address,
		Mask:        p.Mask,
		Chip:        cfg.HPD.Chip,
		Line:        p.Line,
		RTThreshold: cfg.HPD.RTThreshold(),
	})
}

func parsePulseParams(args []string) (hpd.PulseParams, error) {
	if len(args) != 4 {
		return hpd.PulseParams{}, fmt.Errorf("number of parameters not correct")
	}
	vals := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return hpd.PulseParams{}, fmt.Errorf("parameter %q is not a number", a)
		}
		vals[i] = v
	}
	p := hpd.PulseParams{
		DeassertUsec: vals[0],
		AssertUsec:   vals[1],
		Count:        vals[2],
		EndLevel:     vals[3],
	}
	if err := p.Validate(); err != nil {
		return hpd.PulseParams{}, err
	}
	return p, nil
}

func parseWidths(args []string) ([]time.Duration, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("number of parameters not correct")
	}
	widths := make([]time.Duration, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("parameter %q is not a number", a)
		}
		if v <= 0 {
			return nil, fmt.Errorf("pulse widths must be positive")
		}
		widths[i] = time.Duration(v) * time.Millisecond
	}
	return widths, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hpdctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "hpdctl.yaml", "path to YAML board config")
	port := fs.String("port", "", "video input port to drive")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 1
	}
	command, cmdArgs := rest[0], rest[1:]

	// Validate the command and its arguments before any hardware is
	// touched, so usage errors can never leave a partial write behind.
	var (
		params hpd.PulseParams
		widths []time.Duration
	)
	switch command {
	case "status", "plug", "unplug":
		if len(cmdArgs) != 0 {
			fmt.Fprintf(stderr, "Number of parameters not correct.\n\n")
			usage(stderr)
			return 1
		}
	case "repeat_pulse":
		var err error
		if params, err = parsePulseParams(cmdArgs); err != nil {
			fmt.Fprintf(stderr, "%v.\n\n", err)
			usage(stderr)
			return 1
		}
	case "pulse":
		var err error
		if widths, err = parseWidths(cmdArgs); err != nil {
			fmt.Fprintf(stderr, "%v.\n\n", err)
			usage(stderr)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "Unrecognized command.\n\n")
		usage(stderr)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "hpdctl: %v\n", err)
		return 1
	}
	if *port == "" {
		*port = cfg.HPD.DefaultPort
	}
	if _, ok := cfg.HPD.Ports[*port]; !ok {
		fmt.Fprintf(stderr, "Unknown port %q.\n\n", *port)
		usage(stderr)
		return 1
	}

	dev, err := openDeviceFn(cfg, *port)
	if err != nil {
		fmt.Fprintf(stderr, "hpdctl: %v\n", err)
		return 1
	}
	defer dev.Close()

	switch command {
	case "status":
		plugged, err := dev.Plugged()
		if err != nil {
			fmt.Fprintf(stderr, "hpdctl: %v\n", err)
			return 1
		}
		v := 0
		if plugged {
			v = 1
		}
		fmt.Fprintf(stdout, "HPD=%d\n", v)
		return 0
	case "plug":
		err = dev.Plug()
	case "unplug":
		err = dev.Unplug()
	case "repeat_pulse":
		err = dev.RepeatPulse(params)
	case "pulse":
		err = dev.FirePulses(widths)
	}
	if err != nil {
		fmt.Fprintf(stderr, "hpdctl: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
