package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"liftoff/pkg/quiz"
	"liftoff/pkg/sim"
)

const (
	barWidth    = 30
	columnWidth = 3
	helpLine    = "SPACE thrust  ←↑↓→ attitude  b boost  1-3 answer  m mission  r reset  p pause  q quit"
)

var (
	styleText   = tcell.StyleDefault
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleGood   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDanger = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleQuiz   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
)

func (c *cockpit) draw(tel sim.Telemetry) {
	c.screen.Clear()
	w, h := c.screen.Size()

	title := fmt.Sprintf("LIFTOFF  %s  %s", tel.Mission, strings.ToUpper(string(tel.GameState)))
	if c.paused {
		title += "  [PAUSED]"
	}
	drawText(c.screen, 1, 0, styleTitle, title)

	row := 2
	line := func(label, value string, style tcell.Style) {
		drawText(c.screen, 1, row, styleLabel, fmt.Sprintf("%-11s", label))
		drawText(c.screen, 13, row, style, value)
		row++
	}

	line("ALTITUDE", fmt.Sprintf("%8.2f km", tel.AltitudeKm), styleText)
	line("SPEED", fmt.Sprintf("%8.3f km/s  (Mach %.1f)", tel.SpeedKms, tel.Mach), speedStyle(tel))
	line("CLIMB", fmt.Sprintf("%8.3f km/s", tel.ClimbRateKms), styleText)
	line("FUEL", bar(tel.FuelPercent, barWidth)+fmt.Sprintf(" %5.1f%%", tel.FuelPercent), fuelStyle(tel.FuelPercent))
	line("BURN", fmt.Sprintf("%8.2f /s", tel.FuelBurnRate), styleText)
	line("G-FORCE", fmt.Sprintf("%8.2f g", tel.GForce), styleText)
	line("HULL TEMP", fmt.Sprintf("%8.0f °C", tel.TemperatureC), tempStyle(tel.TemperatureC))
	line("DENSITY", fmt.Sprintf("%8.4f", tel.AtmosphericDensity), styleText)
	apogee := fmt.Sprintf("%8.1f km", tel.ApogeeKm)
	if tel.Escaping {
		apogee = "  escape"
	}
	line("APOGEE", apogee, styleText)
	if tel.GameState == sim.StateOrbit {
		line("PERIGEE", fmt.Sprintf("%8.1f km", tel.PerigeeKm), styleGood)
	}
	line("DOWNRANGE", fmt.Sprintf("%8.1f km  hdg %03.0f°", tel.DownrangeKm, tel.Heading), styleText)
	line("POSITION", fmt.Sprintf("%8.4f, %.4f", tel.Latitude, tel.Longitude), styleText)
	line("PROGRESS", bar(tel.MissionProgress, barWidth)+fmt.Sprintf(" %5.1f%%", tel.MissionProgress), styleGood)

	row++
	drawText(c.screen, 1, row, styleWarn, hazardLine(tel))
	row++
	if tel.ThrustBlocked {
		drawText(c.screen, 1, row, styleDanger, "ENGINE LOCKED - answer the challenge")
		row++
	}
	if tel.OrbitalInsertStatus != "" {
		drawText(c.screen, 1, row, styleGood, tel.OrbitalInsertStatus)
		row++
	}
	if msg, style := outcomeLine(tel); msg != "" {
		drawText(c.screen, 1, row, style, msg)
		row++
	}

	if q := tel.Quiz; q != nil && q.Phase == quiz.PhaseQuestioning && q.Question != nil {
		row++
		drawText(c.screen, 1, row, styleQuiz, quizLine(q))
	}

	c.drawColumn(w-columnWidth-1, 2, h-5, tel.MissionProgress)

	if c.status != "" {
		drawText(c.screen, 1, h-2, styleWarn, c.status)
	}
	drawText(c.screen, 1, h-1, styleLabel, helpLine)
	c.screen.Show()
}

// drawColumn draws the altitude column with the vehicle at its progress height.
func (c *cockpit) drawColumn(x, top, height int, progress float64) {
	if height < 3 || x < 0 {
		return
	}
	for y := top; y < top+height; y++ {
		c.screen.SetContent(x, y, tcell.RuneVLine, nil, styleLabel)
	}
	c.screen.SetContent(x, top, '▔', nil, styleGood)
	pos := top + height - 1 - int(progress/100*float64(height-1))
	c.screen.SetContent(x, pos, '▲', nil, styleTitle)
}

func hazardLine(tel sim.Telemetry) string {
	hz := tel.Hazards
	var parts []string
	if hz.StageSeparated {
		parts = append(parts, "STAGE SEP")
	}
	if hz.Malfunction {
		parts = append(parts, fmt.Sprintf("MALFUNCTION %.1fs", hz.MalfunctionTimeLeft))
	}
	if hz.Boost {
		parts = append(parts, fmt.Sprintf("BOOST %.0f", hz.BoostFuel))
	}
	if hz.WindGust != 0 {
		parts = append(parts, fmt.Sprintf("WIND %+.4f", hz.WindGust))
	}
	if len(parts) == 0 {
		return "NOMINAL"
	}
	return strings.Join(parts, "  ")
}

func outcomeLine(tel sim.Telemetry) (string, tcell.Style) {
	switch tel.GameState {
	case sim.StateOrbit:
		if tel.Celebrating {
			return "*** ORBIT ACHIEVED ***", styleGood
		}
		return "In orbit. Press r to fly again.", styleGood
	case sim.StateCrashed:
		reason := tel.CrashReason
		if reason == "" {
			reason = "unknown"
		}
		return "VEHICLE LOST: " + reason + ". Press r to retry.", styleDanger
	case sim.StateReady:
		return "Ready on the pad. SPACE to ignite.", styleText
	}
	return "", styleText
}

func quizLine(q *quiz.Status) string {
	opts := make([]string, len(q.Question.Options))
	for i, o := range q.Question.Options {
		opts[i] = fmt.Sprintf("[%d] %d", i+1, o)
	}
	return fmt.Sprintf("SOLVE: %s = ?   %s   (%.1fs)", q.Question.Text, strings.Join(opts, "  "), q.TimeLeft)
}

func speedStyle(tel sim.Telemetry) tcell.Style {
	if tel.AltitudeKm < sim.AtmosphereTopKm && tel.SpeedKms > sim.MaxSpeedKms*0.8 {
		return styleDanger
	}
	return styleText
}

func fuelStyle(pct float64) tcell.Style {
	switch {
	case pct < 10:
		return styleDanger
	case pct < 25:
		return styleWarn
	}
	return styleGood
}

func tempStyle(c float64) tcell.Style {
	if c > sim.MaxTemperatureC*0.8 {
		return styleDanger
	}
	return styleText
}

// bar renders pct (0-100) as a fixed-width gauge.
func bar(pct float64, width int) string {
	filled := int(max(0, min(100, pct)) / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
