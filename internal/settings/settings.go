// Package settings holds the per-user preferences that drive date
// rendering: a display name and an IANA timezone.
package settings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// UserSettings is loaded once at startup and immutable afterwards.
type UserSettings struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// Common North American and European abbreviations people type instead
// of IANA zone names. Resolved once at load time.
var zoneAbbreviations = map[string]string{
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"GMT":  "Etc/GMT",
	"UTC":  "UTC",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"EET":  "Europe/Helsinki",
	"EEST": "Europe/Helsinki",
}

// ResolveZone maps a timezone abbreviation to its canonical IANA name.
// Anything not in the table passes through unchanged.
func ResolveZone(zone string) string {
	if canonical, ok := zoneAbbreviations[strings.ToUpper(strings.TrimSpace(zone))]; ok {
		return canonical
	}
	return strings.TrimSpace(zone)
}

// Load reads settings from path. When the file is missing the user is
// prompted once and the answers are saved for subsequent runs.
func Load(path string) (*UserSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return setup(path)
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s UserSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	s.Timezone = ResolveZone(s.Timezone)
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return &s, nil
}

// Location returns the user's zone, UTC if it fails to load.
func (s *UserSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// setup walks the user through first-run configuration and persists it.
func setup(path string) (*UserSettings, error) {
	fmt.Println("First run: a couple of questions.")

	s := &UserSettings{}
	s.Name = promptForInput("Enter your name: ")
	for {
		zone := ResolveZone(promptForInput("Enter your timezone (IANA name or abbreviation like EST): "))
		if _, err := time.LoadLocation(zone); err != nil {
			fmt.Println("Unknown timezone, try again (e.g. America/New_York).")
			continue
		}
		s.Timezone = zone
		break
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return s, nil
}

// promptForInput prompts the user for input and returns the response.
func promptForInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	return strings.TrimSpace(response)
}
