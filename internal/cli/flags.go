package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/service"
)

// dayValue binds a YYYY-MM-DD flag to a domain.Day.
type dayValue struct{ d *domain.Day }

func (v dayValue) String() string {
	if v.d == nil {
		return ""
	}
	return v.d.String()
}

func (v dayValue) Set(s string) error {
	d, err := domain.ParseDay(s)
	if err != nil {
		return err
	}
	*v.d = d
	return nil
}

func (v dayValue) Type() string { return "date" }

func dayFlag(fs *pflag.FlagSet, p *domain.Day, name, usage string) {
	fs.Var(dayValue{p}, name, usage)
}

// momentValue accepts a date or a date-time.
type momentValue struct{ m *domain.Moment }

func (v momentValue) String() string {
	if v.m == nil {
		return ""
	}
	return v.m.String()
}

func (v momentValue) Set(s string) error {
	m, err := domain.ParseMoment(s)
	if err != nil {
		return err
	}
	*v.m = m
	return nil
}

func (v momentValue) Type() string { return "date" }

func momentFlag(fs *pflag.FlagSet, p *domain.Moment, name, usage string) {
	fs.Var(momentValue{p}, name, usage)
}

type intervalValue struct{ i *domain.LogInterval }

func (v intervalValue) String() string {
	if v.i == nil {
		return ""
	}
	return string(*v.i)
}

func (v intervalValue) Set(s string) error {
	i := domain.LogInterval(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return fmt.Errorf("must be one of daily, weekly, monthly")
	}
	*v.i = i
	return nil
}

func (v intervalValue) Type() string { return "interval" }

func intervalFlag(fs *pflag.FlagSet, p *domain.LogInterval, name, usage string) {
	fs.Var(intervalValue{p}, name, usage)
}

type eventTypeValue struct{ t *domain.EventType }

func (v eventTypeValue) String() string {
	if v.t == nil {
		return ""
	}
	return string(*v.t)
}

func (v eventTypeValue) Set(s string) error {
	t := domain.EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return fmt.Errorf("must be one of milestone, deadline, log, meeting, report")
	}
	*v.t = t
	return nil
}

func (v eventTypeValue) Type() string { return "type" }

func eventTypeFlag(fs *pflag.FlagSet, p *domain.EventType, name, usage string) {
	fs.Var(eventTypeValue{p}, name, usage)
}

type formatValue struct{ f *service.Format }

func (v formatValue) String() string {
	if v.f == nil {
		return ""
	}
	return string(*v.f)
}

func (v formatValue) Set(s string) error {
	f := service.Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = service.FormatYAML
	}
	if f != service.FormatJSON && f != service.FormatYAML {
		return fmt.Errorf("must be json or yaml")
	}
	*v.f = f
	return nil
}

func (v formatValue) Type() string { return "format" }

func formatFlag(fs *pflag.FlagSet, p *service.Format, name, usage string) {
	fs.Var(formatValue{p}, name, usage)
}

// formatForPath picks yaml for .yaml/.yml files and json otherwise.
func formatForPath(path string) service.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return service.FormatYAML
	default:
		return service.FormatJSON
	}
}
