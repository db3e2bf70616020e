package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{Output: "yaml", OnError: "print", LogLevel: "info"}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, expectError: false},
		{name: "missing output", mutate: func(c *Config) { c.Output = "" }, expectError: true},
		{name: "missing onerror", mutate: func(c *Config) { c.OnError = "" }, expectError: true},
		{name: "missing log level", mutate: func(c *Config) { c.LogLevel = "" }, expectError: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.CacheTTL = -time.Second }, expectError: true},
		{name: "seed without database", mutate: func(c *Config) { c.Sandbox.Seed = "seed.yaml" }, expectError: true},
		{
			name: "seed with database",
			mutate: func(c *Config) {
				c.Sandbox = SandboxConfig{Database: "sandbox.db", Seed: "seed.yaml"}
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)

			err := config.Validate()
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDNSEntryValidation(t *testing.T) {
	tests := []struct {
		name        string
		entry       DNSEntry
		expectError bool
	}{
		{name: "valid entry", entry: DNSEntry{Name: "@", Expire: 60, Type: "A", Content: "192.0.2.1"}},
		{name: "missing name", entry: DNSEntry{Expire: 60, Type: "A", Content: "192.0.2.1"}, expectError: true},
		{name: "missing type", entry: DNSEntry{Name: "@", Expire: 60, Content: "192.0.2.1"}, expectError: true},
		{name: "missing content", entry: DNSEntry{Name: "@", Expire: 60, Type: "A"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDNSEntryMatches(t *testing.T) {
	entry := DNSEntry{Name: "www", Expire: 300, Type: "CNAME", Content: "example.nl."}

	if !entry.Matches(entry) {
		t.Error("entry should match itself")
	}

	other := entry
	other.Expire = 60
	if entry.Matches(other) {
		t.Error("entries with a different expire should not match")
	}
}

func TestParseMailBoxInput(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expected    MailBoxInput
		expectError bool
	}{
		{
			name:     "without forward",
			value:    "info s3cret 1024",
			expected: MailBoxInput{LocalPart: "info", Password: "s3cret", MaxDiskUsage: 1024},
		},
		{
			name:     "with forward",
			value:    "info s3cret 0 me@example.com",
			expected: MailBoxInput{LocalPart: "info", Password: "s3cret", ForwardTo: "me@example.com"},
		},
		{name: "too few fields", value: "info s3cret", expectError: true},
		{name: "too many fields", value: "info s3cret 1 a@b.c extra", expectError: true},
		{name: "usage not a number", value: "info s3cret lots", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMailBoxInput(tt.value)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestParseMailForward(t *testing.T) {
	forward, err := ParseMailForward("sales info@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forward.LocalPart != "sales" || forward.ForwardTo != "info@example.com" {
		t.Errorf("unexpected forward %+v", forward)
	}

	for _, value := range []string{"sales", "sales info@example.com extra", "sales nowhere"} {
		if _, err := ParseMailForward(value); err == nil {
			t.Errorf("%q: expected error", value)
		}
	}
}

func TestMailBoxSerialization(t *testing.T) {
	box := MailBox{
		Identifier:   Address("info", "example.nl"),
		LocalPart:    "info",
		Domain:       "example.nl",
		MaxDiskUsage: 1024,
	}

	data, err := json.Marshal(box)
	if err != nil {
		t.Fatalf("failed to marshal mailbox: %v", err)
	}
	if strings.Contains(string(data), "forwardTo") {
		t.Errorf("empty forward should be omitted: %s", data)
	}
	if !strings.Contains(string(data), `"identifier":"info@example.nl"`) {
		t.Errorf("identifier missing from %s", data)
	}

	out, err := yaml.Marshal(box)
	if err != nil {
		t.Fatalf("failed to marshal mailbox as yaml: %v", err)
	}
	if !strings.Contains(string(out), "maxDiskUsage: 1024") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestResultHasData(t *testing.T) {
	var missing *Result
	if missing.HasData() {
		t.Error("nil result should have no data")
	}
	if (&Result{Command: "sleep 1"}).HasData() {
		t.Error("result without data should have no data")
	}
	if !(&Result{Command: "ping", Data: "pong"}).HasData() {
		t.Error("result with data should have data")
	}
}
