package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/labstack/echo/v4"
)

// ParamsResponse describes both sides of the snapshot handoff.
type ParamsResponse struct {
	Applied             eq.ParameterSnapshot `json:"applied"`
	Generation          uint64               `json:"generation"`
	Requested           eq.ParameterSnapshot `json:"requested"`
	RequestedGeneration uint64               `json:"requested_generation"`
	Pending             bool                 `json:"pending"`
}

// CurveResponse is a rendered magnitude response.
type CurveResponse struct {
	Generation uint64            `json:"generation"`
	SampleRate float64           `json:"sample_rate"`
	Points     eq.MagnitudeCurve `json:"points"`
}

// StatsResponse combines engine counters with the pump output level.
type StatsResponse struct {
	eq.Stats
	OutputRMSDB float64 `json:"output_rms_db"`
}

// GetParams handles GET /api/params.
func (s *Server) GetParams(c echo.Context) error {
	return c.JSON(http.StatusOK, s.params())
}

func (s *Server) params() ParamsResponse {
	applied, gen := s.engine.AppliedSnapshot()
	requested, reqGen := s.engine.RequestedSnapshot()

	return ParamsResponse{
		Applied:             applied,
		Generation:          gen,
		Requested:           requested,
		RequestedGeneration: reqGen,
		Pending:             s.engine.Pending(),
	}
}

// PutParams handles PUT /api/params. Fields missing from the body keep
// their most recently requested value; present fields are clamped to their
// ranges before the snapshot is published.
func (s *Server) PutParams(c echo.Context) error {
	p, _ := s.engine.RequestedSnapshot()

	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters: "+err.Error())
	}

	if err := s.engine.Update(p.Clamp()); err != nil {
		if errors.Is(err, eq.ErrInvalidFilterDesign) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	s.log.Debug("parameters updated", "params", p.Clamp().String())
	return c.JSON(http.StatusAccepted, s.params())
}

// GetCurve handles GET /api/curve?width=N for the applied snapshot.
func (s *Server) GetCurve(c echo.Context) error {
	width := s.settings.Curve.Width
	if raw := c.QueryParam("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 2 || w > s.settings.Curve.MaxWidth {
			return echo.NewHTTPError(http.StatusBadRequest, "width must be an integer in [2, "+strconv.Itoa(s.settings.Curve.MaxWidth)+"]")
		}
		width = w
	}

	start := time.Now()
	applied, gen := s.engine.AppliedSnapshot()
	sr := s.engine.Config().SampleRate

	curve, err := s.curves.Curve(applied, sr, width)
	if err != nil {
		return err
	}
	s.metrics.CurveDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, CurveResponse{Generation: gen, SampleRate: sr, Points: curve})
}

// GetStats handles GET /api/stats.
func (s *Server) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, StatsResponse{
		Stats:       s.engine.Stats(),
		OutputRMSDB: s.level.dB(),
	})
}
