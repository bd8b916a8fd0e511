package predict

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayush/sustainawatt/internal/apperr"
)

// parseFloats reads the named form fields as finite floats, in order.
func parseFloats(r *http.Request, names ...string) ([]float64, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apperr.BadRequest("", "Could not read the submitted form.", err)
	}
	out := make([]float64, len(names))
	for i, name := range names {
		raw := strings.TrimSpace(r.PostFormValue(name))
		if raw == "" {
			return nil, apperr.BadRequest(name, fmt.Sprintf("%s is required.", name), nil)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.BadRequest(name, fmt.Sprintf("%s must be a number.", name), err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.BadRequest(name, fmt.Sprintf("%s must be a finite number.", name), nil)
		}
		out[i] = v
	}
	return out, nil
}

func parseWeather(r *http.Request, temp, pressure, wind string) (Weather, error) {
	v, err := parseFloats(r, temp, pressure, wind)
	if err != nil {
		return Weather{}, err
	}
	return Weather{AirTemperature: v[0], Pressure: v[1], WindSpeed: v[2]}, nil
}

func parseGrid(r *http.Request) (GridInput, error) {
	v, err := parseFloats(r, "c1", "c2", "c3", "p1", "p2", "p3", "PowerGen")
	if err != nil {
		return GridInput{}, err
	}
	return GridInput{
		C:        [3]float64{v[0], v[1], v[2]},
		P:        [3]float64{v[3], v[4], v[5]},
		PowerGen: v[6],
	}, nil
}
