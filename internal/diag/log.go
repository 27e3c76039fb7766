package diag

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/geodyn/convect/internal/field"
)

// Header is the series.csv column order.
var Header = []string{
	"iter", "time", "dt", "metric",
	"u_rms", "u_rms_top", "ux_max",
	"nu_top", "nu_base", "avg_t",
}

// Log appends one CSV row of diagnostics per iteration, reading the
// live temperature and velocity fields it was built with. It
// implements the loop's RowLogger contract.
type Log struct {
	f    *os.File
	w    *csv.Writer
	temp *field.Scalar
	vel  *field.Vector
}

func NewLog(path string, temp *field.Scalar, vel *field.Vector) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, err
	}
	return &Log{f: f, w: w, temp: temp, vel: vel}, nil
}

func (l *Log) LogRow(iter int, t, dt, metric float64) error {
	row := []string{
		strconv.Itoa(iter),
		ftoa(t),
		ftoa(dt),
		ftoa(metric),
		ftoa(RMSVelocity(l.vel)),
		ftoa(RMSVelocityTop(l.vel)),
		ftoa(MaxSurfaceSpeed(l.vel)),
		ftoa(NusseltTop(l.temp)),
		ftoa(NusseltBottom(l.temp)),
		ftoa(AvgTemperature(l.temp)),
	}
	return l.w.Write(row)
}

func (l *Log) Close() error {
	l.w.Flush()
	err := l.w.Error()
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
