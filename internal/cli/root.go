package cli

import (
	"time"

	"github.com/vmartins/studysync/internal/config"
	"github.com/vmartins/studysync/internal/storage"
)

// Context carries the loaded configuration and the open store into every
// command's Run method.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Debug      bool
}

// cacheMaxAge returns the configured cache freshness window.
func (ctx *Context) cacheMaxAge() time.Duration {
	return time.Duration(ctx.Config.Cache.MaxAgeHours) * time.Hour
}

// invertDayNames builds the weekday→native-name map used to back-fill
// exception rows in the template.
func invertDayNames(cfg *config.Config) map[time.Weekday]string {
	weekdays, err := cfg.Weekdays()
	if err != nil {
		return nil
	}
	out := make(map[time.Weekday]string, len(weekdays))
	for native, wd := range weekdays {
		out[wd] = native
	}
	return out
}
