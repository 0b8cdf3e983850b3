package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/framecaster/pkg/configdef"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tauraamui"
	appName        = "framecaster"
	configFileName = "config.json"
)

var fs afero.Fs = afero.NewOsFs()

func Load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return values, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return values, err
	}

	if err := unmarshal(file, &values); err != nil {
		return values, err
	}

	applyDefaults(&values)

	if err := values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

func applyDefaults(values *configdef.Values) {
	if len(values.SegmentPrefix) == 0 {
		values.SegmentPrefix = defaultSettings[SEGMENTPREFIX].(string)
	}
	if values.RingCapacity == 0 {
		values.RingCapacity = defaultSettings[RINGCAPACITY].(int)
	}
	if values.JPEGQuality == 0 {
		values.JPEGQuality = defaultSettings[JPEGQUALITY].(int)
	}
	if values.SendTimeoutSecs == 0 {
		values.SendTimeoutSecs = defaultSettings[SENDTIMEOUTSECS].(int)
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv("FRAMECASTER_CONFIG")
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
