// Command njeclient opens an NJE session to a peer node, signs on, and
// optionally sends an operator command or message, matching the
// original client's test() driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hasplink/njeclient"
	"github.com/hasplink/njeclient/internal/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	debug := 0
	flag.Func("d", "increase debug verbosity (repeatable)", func(string) error {
		debug++
		return nil
	})
	command := flag.String("c", "", "operator command to send after signon")
	message := flag.String("m", "", "console message to send after signon")
	timeout := flag.Duration("timeout", 0, "connect timeout (overrides -profile/default of 30s)")
	profilePath := flag.String("profile", "", "path to an INI profile ([session]/[auth]) providing connection defaults")
	flag.Parse()

	var profile *config.Profile
	if *profilePath != "" {
		p, err := config.LoadProfile(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading profile %q: %v\n", *profilePath, err)
			os.Exit(2)
		}
		profile = p
	}

	host, port, rhost, ohost, password, connectTimeout, err := resolveConnection(profile, flag.Args(), *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: njeclient [-d]... [-c command] [-m message] [-profile path] [host port rhost ohost [password]]")
		os.Exit(2)
	}

	sess := njeclient.NewSession(rhost, ohost)
	sess.SetDebugLevel(debug)

	if err := sess.Open(context.Background(), host, port, connectTimeout, password); err != nil {
		log.Errorf("session failed: %v", err)
		os.Exit(1)
	}
	log.Infof("signed on to %s as %s", ohost, rhost)

	switch {
	case *command != "":
		reply, err := sess.SendCommand(*command)
		if err != nil {
			log.Errorf("command failed: %v", err)
			os.Exit(1)
		}
		fmt.Println(reply)
	case *message != "":
		if err := sess.SendMessage(*message, ""); err != nil {
			log.Errorf("message failed: %v", err)
			os.Exit(1)
		}
	default:
		if err := sess.Signoff(); err != nil {
			log.Errorf("signoff failed: %v", err)
			os.Exit(1)
		}
	}
}

const defaultConnectTimeout = 30 * time.Second

// resolveConnection merges an optional loaded profile with positional
// command-line overrides: a profile supplies host/port/rhost/ohost/
// timeout/password defaults, and any of the four positional args
// (host, port, rhost, ohost) plus an optional fifth (password), when
// given, override the profile's corresponding fields. flagTimeout, when
// non-zero, overrides both.
func resolveConnection(profile *config.Profile, args []string, flagTimeout time.Duration) (host string, port int, rhost, ohost, password string, timeout time.Duration, err error) {
	if profile != nil {
		host, port, rhost, ohost = profile.Host, profile.Port, profile.RHost, profile.OHost
		password = profile.Password
		timeout = profile.Timeout
	}

	if len(args) > 0 && len(args) < 4 {
		return "", 0, "", "", "", 0, fmt.Errorf("need host, port, rhost and ohost together, got %d positional args", len(args))
	}
	if len(args) >= 4 {
		host = args[0]
		port, err = strconv.Atoi(args[1])
		if err != nil {
			return "", 0, "", "", "", 0, fmt.Errorf("invalid port %q: %w", args[1], err)
		}
		rhost, ohost = args[2], args[3]
		if len(args) > 4 {
			password = args[4]
		}
	}

	if host == "" || rhost == "" || ohost == "" {
		return "", 0, "", "", "", 0, fmt.Errorf("host, rhost and ohost are required (from -profile or positional args)")
	}

	switch {
	case flagTimeout != 0:
		timeout = flagTimeout
	case timeout == 0:
		timeout = defaultConnectTimeout
	}

	return host, port, rhost, ohost, password, timeout, nil
}
