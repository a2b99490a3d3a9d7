package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a trimmed copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	trim(&out.Source.ListURL)
	trim(&out.Source.DetailBase)
	trim(&out.Source.DetailPrefix)
	trim(&out.Record.SourceSystem)
	trim(&out.Record.JurisdictionLevel)
	trim(&out.Record.JurisdictionState)
	trim(&out.Sink.URL)
	trim(&out.Sink.Table)
	out.Sink.URL = strings.TrimRight(out.Sink.URL, "/")

	var keys []string
	for _, k := range strings.Split(out.Sink.OnConflict, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	out.Sink.OnConflict = strings.Join(keys, ",")

	// ---- Validation rules ----

	if u, err := url.Parse(out.Source.ListURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("source.list_url must be an absolute URL")
	}
	if u, err := url.Parse(out.Source.DetailBase); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("source.detail_base must be an absolute URL")
	}
	if !strings.HasPrefix(out.Source.DetailPrefix, "/") {
		res.addErr("source.detail_prefix must start with /")
	}
	if out.Source.TimeoutSeconds <= 0 {
		res.addErr("source.timeout_seconds must be > 0")
	}
	if out.Source.MaxRPS < 0 {
		res.addErr("source.max_rps must be >= 0")
	}

	if out.Run.Pages < 1 {
		res.addErr("run.pages must be >= 1")
	} else if out.Run.Pages > 50 {
		res.addWarn("run.pages is %d; the portal is scanned newest first, deep pages are rarely useful.", out.Run.Pages)
	}
	if out.Run.MaxDetails < 0 {
		res.addErr("run.max_details must be >= 0")
	}
	if out.Run.DelayMS < 0 {
		res.addErr("run.delay_ms must be >= 0")
	} else if out.Run.DelayMS < 100 {
		res.addWarn("run.delay_ms is very low (%d) and may get the crawler blocked.", out.Run.DelayMS)
	}
	if strings.TrimSpace(out.Run.OutputPath) == "" {
		res.addErr("run.output_path is required")
	}
	if out.Run.IntervalMinutes < 0 {
		res.addErr("run.interval_minutes must be >= 0")
	}

	if out.Record.SourceSystem == "" {
		res.addErr("record.source_system is required")
	}
	if out.Record.JurisdictionState == "" {
		res.addWarn("record.jurisdiction_state is empty; slugs will lack a state prefix.")
	}

	if len(keys) == 0 {
		res.addErr("sink.on_conflict needs at least one column")
	}
	anySink := out.Sink.URL != "" || out.Sink.Table != "" || out.Sink.Key != "" || out.Sink.KeyringAccount != ""
	if anySink && (out.Sink.URL == "" || out.Sink.Table == "") {
		res.addWarn("sink is partially configured (url=%q table=%q); upsert will be skipped.", out.Sink.URL, out.Sink.Table)
	}
	if out.Sink.PostgresDSN != "" && out.Sink.Table == "" {
		res.addErr("sink.table is required when sink.postgres_dsn is set")
	}

	return out, res
}
