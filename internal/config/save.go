package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveAtomic writes cfg to path, keeping the previous file as path.bak.
// Secrets are not persisted.
func SaveAtomic(path string, cfg Config) error {
	out, res := NormalizeAndValidate(cfg)
	if err := res.Err(); err != nil {
		return err
	}
	out.Sink.Key = ""
	out.Sink.PostgresDSN = ""

	b, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
