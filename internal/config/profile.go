// Package config reads session profiles from INI files, sharing a
// single format between the CLI and programmatic callers.
package config

import (
	"time"

	"gopkg.in/ini.v1"
)

// Profile is the decoded [session]/[auth] configuration for one run.
type Profile struct {
	Host    string
	Port    int
	RHost   string
	OHost   string
	Timeout time.Duration

	Password string
	UserID   string
	Group    string
}

// LoadProfile reads path as an INI file with [session] and [auth]
// sections.
func LoadProfile(path string) (*Profile, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	session := f.Section("session")
	auth := f.Section("auth")

	timeoutSeconds := session.Key("timeout").MustInt(30)

	return &Profile{
		Host:     session.Key("host").String(),
		Port:     session.Key("port").MustInt(175),
		RHost:    session.Key("rhost").String(),
		OHost:    session.Key("ohost").String(),
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
		Password: auth.Key("password").String(),
		UserID:   auth.Key("userid").String(),
		Group:    auth.Key("group").String(),
	}, nil
}
