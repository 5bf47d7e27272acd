package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlstream-go/pkg/xlstream/models"
)

// Epoch is day zero of the 1900 date system. It sits one day before
// 1899-12-31 so that serials after February 1900 line up with the calendar
// despite the phantom 1900-02-29.
var Epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// maxSerial is the serial of 9999-12-31, the last day a workbook can hold.
const maxSerial = 2958465

// DateFromSerial returns the calendar date of a serial day count.
// The fractional part is dropped.
func DateFromSerial(serial float64) time.Time {
	return Epoch.AddDate(0, 0, int(math.Floor(serial)))
}

// DateTimeFromSerial returns the instant of a serial day count, keeping the
// fractional day as a time of day.
func DateTimeFromSerial(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	return Epoch.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(frac * float64(day))))
}

// TimeFromFraction decomposes a fractional day into hours, minutes and seconds.
func TimeFromFraction(f float64) models.Time {
	return models.Time{
		Hours:   int(math.Floor(f * 24)),
		Minutes: floorMod(f*24*60, 60),
		Seconds: floorMod(f*24*60*60, 60),
	}
}

func floorMod(x float64, m int) int {
	n := int(math.Floor(x)) % m
	if n < 0 {
		n += m
	}
	return n
}

// parseValue coerces the text payload of a cell according to its type.
// Custom cell types keep the raw text.
func parseValue(ct models.CellType, text string, lookup CellLookup) (interface{}, error) {
	switch ct {
	case models.CellShared:
		i, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("shared string index %q: %w", text, err)
		}
		return lookup.SharedString(i)
	case models.CellBoolean:
		i, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("boolean value %q: %w", text, err)
		}
		return i != 0, nil
	case models.CellDate, models.CellDateTime, models.CellTime, models.CellFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%s value %q: %w", ct, text, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s value %q is not a finite number", ct, text)
		}
		if ct != models.CellFloat && math.Abs(f) > maxSerial {
			return nil, fmt.Errorf("%s value %q is out of range", ct, text)
		}
		switch ct {
		case models.CellDate:
			return DateFromSerial(f), nil
		case models.CellDateTime:
			return DateTimeFromSerial(f), nil
		case models.CellTime:
			return TimeFromFraction(f), nil
		}
		return f, nil
	}
	return text, nil
}
