package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/rs/zerolog"
)

// JSONConsole writes every console call as a zerolog event, one JSON object per line.
type JSONConsole struct {
	logger zerolog.Logger
	out    io.Writer
}

// NewJSONConsole creates a console that logs to out at the given level (debug, info, warn, error).
func NewJSONConsole(out io.Writer, level string) *JSONConsole {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return &JSONConsole{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
		out:    out,
	}
}

// Logger exposes the underlying logger for components that log structured fields.
func (c *JSONConsole) Logger() zerolog.Logger {
	return c.logger
}

func (c *JSONConsole) Print(a ...interface{}) {
	c.logger.Info().Msg(fmt.Sprint(a...))
}

func (c *JSONConsole) Printf(format string, a ...interface{}) {
	c.logger.Info().Msgf(format, a...)
}

func (c *JSONConsole) Println(a ...interface{}) {
	msg := fmt.Sprint(a...)
	if msg == "" {
		return
	}
	c.logger.Info().Msg(msg)
}

func (c *JSONConsole) LogInfo(format string, a ...interface{}) {
	c.logger.Info().Msgf(format, a...)
}

func (c *JSONConsole) LogWarning(format string, a ...interface{}) {
	c.logger.Warn().Msgf(format, a...)
}

func (c *JSONConsole) LogError(format string, a ...interface{}) {
	c.logger.Error().Msgf(format, a...)
}

func (c *JSONConsole) LogSuccess(format string, a ...interface{}) {
	c.logger.Info().Bool("success", true).Msgf(format, a...)
}

type jsonStatus struct {
	logger zerolog.Logger
}

// Status logs the start of a long step; updates are logged at debug level.
func (c *JSONConsole) Status(message string) types.StatusHandle {
	c.logger.Debug().Str("status", "start").Msg(message)
	return &jsonStatus{logger: c.logger}
}

func (s *jsonStatus) Update(message string) {
	s.logger.Debug().Str("status", "update").Msg(message)
}

func (s *jsonStatus) Stop() {}

// jsonTable renders as a single JSON document instead of a drawn table.
type jsonTable struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func (c *JSONConsole) CreateTable() types.TableInterface {
	return &jsonTable{Columns: []string{}, Rows: [][]interface{}{}}
}

func (t *jsonTable) AddColumn(name string, options ...interface{}) {
	t.Columns = append(t.Columns, name)
}

func (t *jsonTable) AddRow(cells ...interface{}) {
	t.Rows = append(t.Rows, cells)
}

func (t *jsonTable) Render() string {
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(b)
}

func (c *JSONConsole) DisplayTotalsBars(values []types.BarValue) {
	arr := zerolog.Arr()
	for _, v := range values {
		arr.Dict(zerolog.Dict().Str("buyer", v.Label).Int("total", v.Value))
	}
	c.logger.Info().Array("totals", arr).Msg("tickets per buyer")
}
