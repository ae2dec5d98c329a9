package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache loads profile configuration files from a directory and serves
// them from memory. Profiles are loaded once at startup; LoadProfile can
// be called again to pick up an edited file.
type Cache struct {
	profilesDir string
	cache       map[string]*Profile
	mu          sync.RWMutex
}

func NewCache(profilesDir string) *Cache {
	return &Cache{
		profilesDir: profilesDir,
		cache:       make(map[string]*Profile),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.profilesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.profilesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		profileName := strings.TrimSuffix(filepath.Base(file), ".yml")

		p, err := c.LoadProfile(profileName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Profile loaded", "profile", profileName, "enabled", p.Settings.Enabled, "channels", len(p.Channels))
	}

	return nil
}

func (c *Cache) LoadProfile(profileName string) (*Profile, error) {
	profileFile := c.getProfileFilePath(profileName)
	p, err := c.parseProfile(profileFile)
	if err != nil {
		return nil, err
	}

	// Derive profile name from the filename
	p.Name = profileName

	if err := c.validateProfile(p); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", profileFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[p.Name] = p

	return p, nil
}

func (c *Cache) GetProfile(profileName string) (*Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.cache[profileName]
	if !ok {
		return nil, fmt.Errorf("profile with name '%s' not found", profileName)
	}
	return p, nil
}

func (c *Cache) GetProfiles() map[string]*Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	profilesCopy := make(map[string]*Profile, len(c.cache))
	for k, v := range c.cache {
		profilesCopy[k] = v
	}
	return profilesCopy
}

func (c *Cache) GetEnabledProfiles() map[string]*Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabled := make(map[string]*Profile)
	for k, v := range c.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (c *Cache) GetProfileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseProfile(profileFile string) (*Profile, error) {
	data, err := os.ReadFile(profileFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if p.Settings.VideosPerChannel == 0 {
		p.Settings.VideosPerChannel = 3
	}
	if p.Settings.LookbackHours == 0 {
		p.Settings.LookbackHours = 48
	}

	return &p, nil
}

func (c *Cache) validateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	if len(p.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}

	for i, ch := range p.Channels {
		if ch.URL == "" {
			return fmt.Errorf("channel at index %d: URL is required", i)
		}
		if ch.Handle == "" {
			return fmt.Errorf("channel at index %d: handle is required", i)
		}
	}

	if p.Prompt == "" {
		return fmt.Errorf("prompt template is required")
	}
	if !strings.Contains(p.Prompt, "{transcript}") {
		return fmt.Errorf("prompt template must contain the {transcript} placeholder")
	}

	nonNegativeFields := map[string]int{
		"videos per channel": p.Settings.VideosPerChannel,
		"lookback hours":     p.Settings.LookbackHours,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func (c *Cache) getProfileFilePath(profileName string) string {
	return filepath.Join(c.profilesDir, profileName+".yml")
}
