// Package timeseries reads producer and consumer series exported by the
// distribution operator: a header line, then one "label;value" row per
// 15-minute slot with a comma as decimal separator.
package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vrogeon/repartkey/core/logger"
	"github.com/vrogeon/repartkey/core/model"
)

// Separator is the column separator of the input files.
const Separator = ';'

// DataParseError describes a row that was skipped.
type DataParseError struct {
	Line int
	Raw  string
	Err  error
}

func (e *DataParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Raw, e.Err)
}

func (e *DataParseError) Unwrap() error { return e.Err }

var (
	errColumns  = errors.New("expected at least 2 columns")
	errNegative = errors.New("negative value")
	errInvalid  = errors.New("not a finite number")
)

// Reader parses series. Rows that cannot be parsed are logged and skipped.
type Reader struct {
	log logger.Logger
}

// NewReader returns a Reader logging skipped rows to log.
func NewReader(log logger.Logger) *Reader {
	return &Reader{log: logger.OrNop(log)}
}

// Read parses r and returns the points together with the skipped rows.
// Only errors that prevent reading the stream are returned as err.
func (rd *Reader) Read(r io.Reader) ([]model.Point, []*DataParseError, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var (
		points  []model.Point
		skipped []*DataParseError
		header  = true
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, nil, err
			}
			header = false
			skipped = append(skipped, rd.skip(perr.Line, "", err))
			continue
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			skipped = append(skipped, rd.skip(line, strings.Join(rec, string(Separator)), errColumns))
			continue
		}
		v, err := ParseValue(rec[1])
		if err != nil {
			skipped = append(skipped, rd.skip(line, rec[1], err))
			continue
		}
		points = append(points, model.Point{Slot: strings.TrimSpace(rec[0]), Value: v})
	}
	return points, skipped, nil
}

func (rd *Reader) skip(line int, raw string, err error) *DataParseError {
	perr := &DataParseError{Line: line, Raw: raw, Err: err}
	rd.log.Warnf("skipping row: %v", perr)
	return perr
}

// ReadFile parses the file at path.
func (rd *Reader) ReadFile(path string) ([]model.Point, []*DataParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()
	points, skipped, err := rd.Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	rd.log.Debugw("series loaded", map[string]any{"path": path, "points": len(points), "skipped": len(skipped)})
	return points, skipped, nil
}

// ReadProducer loads a producer series.
func (rd *Reader) ReadProducer(path, name, id string) (model.Producer, []*DataParseError, error) {
	points, skipped, err := rd.ReadFile(path)
	if err != nil {
		return model.Producer{}, nil, err
	}
	return model.Producer{Name: name, ID: id, Points: points}, skipped, nil
}

// ReadConsumer loads a consumer series with its per-producer parameters.
func (rd *Reader) ReadConsumer(path, name, id string, priorities []int, ratios []float64) (model.Consumer, []*DataParseError, error) {
	points, skipped, err := rd.ReadFile(path)
	if err != nil {
		return model.Consumer{}, nil, err
	}
	return model.Consumer{
		Name:       name,
		ID:         id,
		Priorities: append([]int(nil), priorities...),
		Ratios:     append([]float64(nil), ratios...),
		Points:     points,
	}, skipped, nil
}

// ParseValue parses a value written with either ',' or '.' as decimal
// separator. Negative and non finite values are rejected.
func ParseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errInvalid
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}
