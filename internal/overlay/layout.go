package overlay

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// minColumnFont is the legibility floor for column layouts. Labels are
// abbreviated rather than drawn smaller than this.
const minColumnFont = 14.0

const waitingMessage = "Waiting for data…"

// BuildLayout maps a render request to an ordered draw-instruction list.
// It is pure and deterministic: identical request content always yields an
// identical list, which is what makes fingerprint-keyed render caching
// sound. All time-of-day decisions come from timestamps inside the
// snapshot, never from the wall clock.
func BuildLayout(req domain.RenderRequest) (DisplayList, error) {
	req = req.Normalized()
	st, ok := themeStyles[req.Theme]
	if !ok {
		st = themeStyles[domain.ThemeDark]
	}

	list := DisplayList{Width: req.Width, Height: req.Height}
	list.add(RectOp{
		W: float64(req.Width), H: float64(req.Height),
		Color: st.Background,
	})

	switch req.Kind {
	case domain.KindCurrent:
		layoutCurrent(&list, st, req)
	case domain.KindExpanded:
		layoutExpanded(&list, st, req)
	case domain.KindHourly:
		layoutHourly(&list, st, req)
	case domain.KindDaily:
		layoutDaily(&list, st, req)
	case domain.KindFiveDay:
		layoutFiveDay(&list, st, req)
	case domain.KindTide:
		layoutTide(&list, st, req)
	default:
		return DisplayList{}, fmt.Errorf("%w: %q", domain.ErrUnknownOverlay, req.Kind)
	}
	return list, nil
}

// estTextWidth approximates rendered width from the glyph count. Layout
// stays a pure function of the request this way; the renderer deals with
// the real font metrics.
func estTextWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.55
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func tempSymbol(u domain.Units) string {
	if u == domain.UnitsMetric {
		return "°C"
	}
	return "°F"
}

func windUnit(u domain.Units) string {
	if u == domain.UnitsMetric {
		return "km/h"
	}
	return "mph"
}

// centeredPanel draws a title and message centered across the canvas, used
// for both the waiting state and upstream error panels.
func centeredPanel(list *DisplayList, st style, title, message string) {
	w := float64(list.Width)
	h := float64(list.Height)
	padding := maxF(h*0.06, 24)

	titleSize := maxF(h*0.22, 40)
	messageSize := maxF(h*0.13, 24)

	titleY := padding + titleSize
	list.add(TextOp{
		Text: title, X: w / 2, Y: titleY,
		Size: titleSize, Align: AlignCenter, Color: st.Text,
	})
	list.add(TextOp{
		Text: message, X: w / 2, Y: titleY + padding + messageSize,
		Size: messageSize, Align: AlignCenter, Color: st.Text,
	})
}

// creditLine is the attribution strip across the bottom of forecast and
// tide overlays. The timestamp is the data's fetch time, so a cached
// bitmap and a fresh one never disagree.
func creditLine(list *DisplayList, location, stationID string, at time.Time) {
	local := at.Local()
	stamp := local.Format("Mon Jan 2 3:04PM")

	var text string
	switch {
	case location != "" && stationID != "":
		text = fmt.Sprintf("%s (Station %s) | Tempest Weather Network | %s", location, stationID, stamp)
	case stationID != "":
		text = fmt.Sprintf("Station %s | Tempest Weather Network | %s", stationID, stamp)
	default:
		text = fmt.Sprintf("Data from Tempest Weather Network | %s", stamp)
	}

	h := float64(list.Height)
	size := maxF(h*0.08, 16)
	list.add(TextOp{
		Text: text, X: float64(list.Width) / 2, Y: h - maxF(h*0.03, 10),
		Size: size, Align: AlignCenter, Color: creditColor, Bold: true,
	})
}

func layoutCurrent(list *DisplayList, st style, req domain.RenderRequest) {
	obs := req.Snapshot.Observation
	if obs == nil {
		centeredPanel(list, st, "Current Conditions", waitingMessage)
		return
	}

	w := float64(req.Width)
	h := float64(req.Height)
	padding := maxF(h*0.12, 16)

	tempText := "--"
	if obs.TempC != nil {
		if req.Units == domain.UnitsMetric {
			tempText = fmt.Sprintf("%.0f°C", *obs.TempC)
		} else {
			tempText = fmt.Sprintf("%.0f°F", domain.CToF(*obs.TempC))
		}
	}

	windText := "--"
	if obs.WindAvgMS != nil {
		speed := domain.MSToMPH(*obs.WindAvgMS)
		if req.Units == domain.UnitsMetric {
			speed = domain.MSToKMH(*obs.WindAvgMS)
		}
		windText = fmt.Sprintf("%.0f %s", speed, windUnit(req.Units))
		if obs.WindDirDeg != nil {
			windText += " " + domain.Compass(*obs.WindDirDeg)
		}
	}

	humidityText := "--"
	if obs.Humidity != nil {
		humidityText = fmt.Sprintf("%.0f%%", *obs.Humidity)
	}

	iconSize := int(h * 0.6)
	iconX := padding * 2
	innerLeft := iconX + float64(iconSize) + padding
	availableWidth := w - padding - innerLeft

	// Shrink the primary row until it fits, down to a readable floor.
	fontSize := maxF(h*0.32, 28)
	for fontSize > 18 {
		spacing := maxF(padding*0.7, 16)
		small := maxF(fontSize*0.15, 8)
		glyph := maxF(fontSize*0.8, 18)
		total := estTextWidth(tempText, fontSize) + spacing +
			glyph + small + estTextWidth(windText, fontSize) + spacing +
			glyph + small + estTextWidth(humidityText, fontSize)
		if total <= availableWidth {
			break
		}
		fontSize -= 2
	}

	spacing := maxF(padding*0.7, 16)
	small := maxF(fontSize*0.15, 8)
	glyphSize := int(maxF(fontSize*0.8, 18))

	innerTop := padding * 1.6
	baseline := innerTop + fontSize

	iconY := innerTop + maxF((fontSize-float64(iconSize))/2, 0)
	list.add(IconOp{Name: selectIcon(obs), X: iconX, Y: iconY, Size: iconSize})

	x := innerLeft
	list.add(TextOp{Text: tempText, X: x, Y: baseline, Size: fontSize, Color: st.Text})
	x += estTextWidth(tempText, fontSize) + spacing

	glyphY := innerTop + maxF((fontSize-float64(glyphSize))/2, 0)
	list.add(IconOp{Name: "wind", X: x, Y: glyphY, Size: glyphSize})
	x += float64(glyphSize) + small
	list.add(TextOp{Text: windText, X: x, Y: baseline, Size: fontSize, Color: st.Text})
	x += estTextWidth(windText, fontSize) + spacing

	list.add(IconOp{Name: "humidity", X: x, Y: glyphY, Size: glyphSize})
	x += float64(glyphSize) + small
	list.add(TextOp{Text: humidityText, X: x, Y: baseline, Size: fontSize, Color: st.Text})

	footerSize := maxF(fontSize*0.6, 14)
	updated := obs.ObservedAt.Local().Format("2006-01-02 15:04 MST")
	list.add(TextOp{
		Text: "Updated: " + updated,
		X:    innerLeft, Y: baseline + maxF(footerSize*0.5, 10) + footerSize,
		Size: footerSize, Color: st.Text,
	})
}

// layoutExpanded draws the grid variant of current conditions from the
// forecast bundle: a left column with icon, temperature, and conditions
// text, and a 2x3 grid of secondary metrics on the right.
func layoutExpanded(list *DisplayList, st style, req domain.RenderRequest) {
	const title = "Current Conditions"
	b := req.Snapshot.Forecast
	if !forecastPanel(list, st, title, b, 0, "") {
		return
	}
	cur := b.Current

	w := float64(req.Width)
	h := float64(req.Height)
	padding := maxF(h*0.06, 24)
	innerLeft := padding * 2

	titleSize := maxF(h*0.15, 36)
	y := padding + titleSize
	list.add(TextOp{Text: title, X: innerLeft, Y: y, Size: titleSize, Color: st.Text})
	y += maxF(h*0.04, 16)

	creditSize := maxF(h*0.08, 16)
	bottomReserved := creditSize + maxF(h*0.08, 30) + maxF(h*0.03, 10) + padding
	remaining := h - y - bottomReserved
	availableWidth := w - innerLeft - padding

	// Left quarter: icon over temperature over conditions.
	leftColWidth := availableWidth * 0.25
	leftCenterX := innerLeft + leftColWidth/2

	iconSize := int(maxF(remaining*0.4, 48))
	iconY := y + maxF((remaining-float64(iconSize))/2-remaining*0.1, 0)
	list.add(IconOp{Name: forecastIcon(cur.Icon), X: leftCenterX - float64(iconSize)/2, Y: iconY, Size: iconSize})

	tempText := "--"
	if cur.AirTemp != nil {
		tempText = fmt.Sprintf("%.0f%s", *cur.AirTemp, tempSymbol(req.Units))
	}
	tempSize := maxF(remaining*0.22, 28)
	tempY := iconY + float64(iconSize) + maxF(h*0.01, 4) + tempSize
	list.add(TextOp{Text: tempText, X: leftCenterX, Y: tempY, Size: tempSize, Align: AlignCenter, Color: st.Text})

	conditions := cur.Conditions
	if conditions == "" {
		conditions = conditionsFromIcon(cur.Icon)
	}
	condSize := maxF(remaining*0.09, 14)
	condY := tempY + maxF(h*0.01, 4) + condSize
	list.add(TextOp{Text: conditions, X: leftCenterX, Y: condY, Size: condSize, Align: AlignCenter, Color: st.Text})

	// Right three quarters: 2x3 grid of labeled metrics.
	type gridItem struct {
		label string
		value string
		icon  string
	}
	items := []gridItem{
		{label: "Wind", value: expandedWind(cur, req.Units), icon: "wind"},
		{label: "Humidity", value: formatOptional(cur.Humidity, "%.0f%%"), icon: "humidity"},
		{label: "Feels Like", value: formatOptional(cur.FeelsLike, "%.0f"+tempSymbol(req.Units))},
		{label: "UV Index", value: formatOptional(cur.UVIndex, "%.1f")},
		{label: "Pressure", value: expandedPressure(cur.SeaLevelPressure, req.Units)},
		{label: "Rain Today", value: formatOptional(cur.RainToday, "%.2f "+rainUnit(req.Units))},
	}

	gridX := innerLeft + leftColWidth
	cellWidth := (availableWidth - leftColWidth) / 3
	cellHeight := remaining / 2
	labelSize := maxF(cellHeight*0.15, 12)
	valueSize := maxF(cellHeight*0.20, 14)

	for i, item := range items {
		row := float64(i / 3)
		col := float64(i % 3)
		centerX := gridX + col*cellWidth + cellWidth/2
		centerY := y + row*cellHeight + cellHeight/2

		spacing := maxF(cellHeight*0.08, 6)
		contentHeight := labelSize + spacing + valueSize
		labelY := centerY - contentHeight/2 + labelSize
		list.add(TextOp{Text: item.label, X: centerX, Y: labelY, Size: labelSize, Align: AlignCenter, Color: st.Text})

		valueY := labelY + spacing + valueSize
		if item.icon == "" {
			list.add(TextOp{Text: item.value, X: centerX, Y: valueY, Size: valueSize, Align: AlignCenter, Color: st.Text})
			continue
		}

		glyphSize := int(valueSize * 0.9)
		glyphSpacing := maxF(cellWidth*0.08, 10)
		total := float64(glyphSize) + glyphSpacing + estTextWidth(item.value, valueSize)
		startX := centerX - total/2
		glyphY := valueY - valueSize + (valueSize-float64(glyphSize))/2
		list.add(IconOp{Name: item.icon, X: startX, Y: glyphY, Size: glyphSize})
		list.add(TextOp{Text: item.value, X: startX + float64(glyphSize) + glyphSpacing, Y: valueY, Size: valueSize, Color: st.Text})
	}

	creditLine(list, b.LocationName, b.StationID, b.FetchedAt)
}

// expandedWind formats the wind cell, values already in the bundle's units.
func expandedWind(cur domain.CurrentConditions, u domain.Units) string {
	if cur.WindAvg == nil {
		return "--"
	}
	text := fmt.Sprintf("%.0f %s", *cur.WindAvg, windUnit(u))
	if cur.WindDirDeg != nil {
		text += " " + domain.Compass(*cur.WindDirDeg)
	}
	return text
}

// expandedPressure formats the pressure cell with its trend arrow. Analysis
// always runs in inHg regardless of the display unit.
func expandedPressure(p *float64, u domain.Units) string {
	if p == nil {
		return "--"
	}
	inHg := *p
	text := fmt.Sprintf("%.2f inHg", *p)
	if u == domain.UnitsMetric {
		inHg = domain.MBToInHg(*p)
		text = fmt.Sprintf("%.0f mb", *p)
	}
	return text + " " + domain.AnalyzePressure(&inHg).Arrow
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf(format, *v)
}

func rainUnit(u domain.Units) string {
	if u == domain.UnitsMetric {
		return "mm"
	}
	return "in"
}

// conditionsFromIcon derives display text from an icon token, e.g.
// "partly-cloudy-day" becomes "Partly Cloudy Day".
func conditionsFromIcon(icon string) string {
	if icon == "" {
		return ""
	}
	words := strings.Split(icon, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		r := []rune(word)
		words[i] = string(unicode.ToUpper(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// forecastPanel validates the bundle shared by all forecast layouts and
// draws the error/waiting panel when there is nothing to render. It
// reports whether the caller should continue with real data.
func forecastPanel(list *DisplayList, st style, title string, b *domain.ForecastBundle, need int, section string) bool {
	if b == nil {
		centeredPanel(list, st, title, waitingMessage)
		return false
	}
	if !b.OK() {
		centeredPanel(list, st, title, b.Reason)
		return false
	}
	if need > 0 {
		n := len(b.Daily)
		if section == "hourly" {
			n = len(b.Hourly)
		}
		if n < need {
			centeredPanel(list, st, title, "Insufficient forecast data")
			return false
		}
	}
	return true
}

func layoutHourly(list *DisplayList, st style, req domain.RenderRequest) {
	const title = "5-Hour Forecast"
	b := req.Snapshot.Forecast
	if !forecastPanel(list, st, title, b, 5, "hourly") {
		return
	}

	w := float64(req.Width)
	h := float64(req.Height)
	padding := maxF(h*0.06, 24)
	innerLeft := padding * 2

	titleSize := maxF(h*0.15, 36)
	y := padding + titleSize
	list.add(TextOp{Text: title, X: innerLeft, Y: y, Size: titleSize, Color: st.Text})
	y += maxF(h*0.04, 16)

	creditSize := maxF(h*0.08, 16)
	bottomReserved := creditSize + maxF(h*0.08, 30) + maxF(h*0.03, 10) + padding
	colHeight := h - y - bottomReserved
	availableWidth := w - innerLeft - padding
	colWidth := availableWidth / 5
	contentWidth := colWidth - maxF(colWidth*0.05, 10)

	timeSize := fitColumnFont(maxF(colHeight*0.12, 18), contentWidth, 5)
	tempSize := fitColumnFont(maxF(colHeight*0.11, 16), contentWidth, 5)
	windSize := fitColumnFont(maxF(colHeight*0.09, minColumnFont), contentWidth, 9)
	iconSize := int(maxF(colHeight*0.35, 48))

	for i, hour := range b.Hourly[:5] {
		centerX := innerLeft + float64(i)*colWidth + contentWidth/2

		timeLabel := hour.Time.Local().Format("3 PM")
		rowY := y + timeSize
		list.add(TextOp{Text: timeLabel, X: centerX, Y: rowY, Size: timeSize, Align: AlignCenter, Color: st.Text})

		iconY := rowY + maxF(h*0.03, 12)
		list.add(IconOp{Name: forecastIcon(hour.Icon), X: centerX - float64(iconSize)/2, Y: iconY, Size: iconSize})

		tempText := "--"
		if hour.AirTemp != nil {
			tempText = fmt.Sprintf("%.0f%s", *hour.AirTemp, tempSymbol(req.Units))
		}
		tempY := iconY + float64(iconSize) + maxF(h*0.02, 8) + tempSize
		list.add(TextOp{Text: tempText, X: centerX, Y: tempY, Size: tempSize, Align: AlignCenter, Color: st.Text})

		windText := "--"
		if hour.WindAvg != nil && hour.WindDirDeg != nil {
			windText = fmt.Sprintf("%.0f %s %s", *hour.WindAvg, windUnit(req.Units), domain.Compass(*hour.WindDirDeg))
		}
		windY := tempY + maxF(h*0.015, 6) + windSize
		list.add(TextOp{Text: windText, X: centerX, Y: windY, Size: windSize, Align: AlignCenter, Color: st.Text})
	}

	creditLine(list, b.LocationName, b.StationID, b.FetchedAt)
}

func layoutDaily(list *DisplayList, st style, req domain.RenderRequest) {
	const title = "Today's Forecast"
	b := req.Snapshot.Forecast
	if !forecastPanel(list, st, title, b, 1, "daily") {
		return
	}
	today := b.Daily[0]

	h := float64(req.Height)
	padding := maxF(h*0.06, 24)
	innerLeft := padding * 2

	titleSize := maxF(h*0.18, 48)
	y := padding + titleSize
	list.add(TextOp{Text: title, X: innerLeft, Y: y, Size: titleSize, Color: st.Text})
	y += maxF(h*0.05, 20)

	creditSize := maxF(h*0.08, 16)
	bottomReserved := creditSize + maxF(h*0.08, 30) + maxF(h*0.03, 10) + padding
	remaining := h - y - bottomReserved

	fontSize := maxF(remaining*0.4, 36)
	iconSize := int(maxF(remaining*0.7, 64))
	spacing := maxF(fontSize*0.5, 30)

	iconY := y + maxF((remaining-float64(iconSize))/2, 0)
	list.add(IconOp{Name: forecastIcon(today.Icon), X: innerLeft, Y: iconY, Size: iconSize})

	baseline := y + fontSize
	x := innerLeft + float64(iconSize) + spacing

	sym := tempSymbol(req.Units)
	rangeText := "--"
	if today.TempHigh != nil && today.TempLow != nil {
		rangeText = fmt.Sprintf("%.0f%s / %.0f%s", *today.TempHigh, sym, *today.TempLow, sym)
	}
	list.add(TextOp{Text: rangeText, X: x, Y: baseline, Size: fontSize, Color: st.Text})
	x += estTextWidth(rangeText, fontSize) + spacing

	conditions := today.Conditions
	if conditions == "" {
		conditions = "Unknown"
	}
	list.add(TextOp{Text: conditions, X: x, Y: baseline, Size: fontSize, Color: st.Text})
	x += estTextWidth(conditions, fontSize) + spacing

	list.add(TextOp{
		Text: fmt.Sprintf("Rain: %d%%", today.PrecipProb),
		X:    x, Y: baseline, Size: fontSize, Color: st.Text,
	})

	creditLine(list, b.LocationName, b.StationID, b.FetchedAt)
}

func layoutFiveDay(list *DisplayList, st style, req domain.RenderRequest) {
	const title = "5-Day Forecast"
	b := req.Snapshot.Forecast
	if !forecastPanel(list, st, title, b, 5, "daily") {
		return
	}

	w := float64(req.Width)
	h := float64(req.Height)
	padding := maxF(h*0.06, 24)
	innerLeft := padding * 2

	titleSize := maxF(h*0.15, 36)
	y := padding + titleSize
	list.add(TextOp{Text: title, X: innerLeft, Y: y, Size: titleSize, Color: st.Text})
	y += maxF(h*0.04, 16)

	creditSize := maxF(h*0.08, 16)
	bottomReserved := creditSize + maxF(h*0.08, 30) + maxF(h*0.03, 10) + padding
	colHeight := h - y - bottomReserved
	availableWidth := w - innerLeft - padding
	colWidth := availableWidth / 5
	contentWidth := colWidth - maxF(colWidth*0.05, 10)

	nameSize := maxF(colHeight*0.15, 20)
	tempSize := fitColumnFont(maxF(colHeight*0.13, 18), contentWidth, 8)
	iconSize := int(maxF(colHeight*0.4, 48))

	for i, day := range b.Daily[:5] {
		centerX := innerLeft + float64(i)*colWidth + contentWidth/2

		label := dayLabel(i, day.DayStart, nameSize, contentWidth)
		rowY := y + nameSize
		list.add(TextOp{Text: label, X: centerX, Y: rowY, Size: nameSize, Align: AlignCenter, Color: st.Text})

		iconY := rowY + maxF(h*0.03, 12)
		list.add(IconOp{Name: forecastIcon(day.Icon), X: centerX - float64(iconSize)/2, Y: iconY, Size: iconSize})

		tempText := "--"
		if day.TempHigh != nil && day.TempLow != nil {
			tempText = fmt.Sprintf("%.0f/%.0f%s", *day.TempHigh, *day.TempLow, tempSymbol(req.Units))
		}
		tempY := iconY + float64(iconSize) + maxF(h*0.02, 8) + tempSize
		list.add(TextOp{Text: tempText, X: centerX, Y: tempY, Size: tempSize, Align: AlignCenter, Color: st.Text})
	}

	creditLine(list, b.LocationName, b.StationID, b.FetchedAt)
}

// dayLabel names a forecast day relative to the bundle's first day. When
// the full weekday name will not fit at the requested size, it is
// abbreviated to three letters instead of shrinking below the legibility
// floor.
func dayLabel(index int, dayStart time.Time, size, maxWidth float64) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	full := dayStart.Local().Format("Monday")
	if estTextWidth(full, size) > maxWidth {
		return dayStart.Local().Format("Mon")
	}
	return full
}

// fitColumnFont shrinks a column font so text of the given glyph count
// fits, stopping at the legibility floor. Abbreviation, not further
// shrinking, handles anything below the floor.
func fitColumnFont(size, maxWidth float64, glyphs int) float64 {
	for size > minColumnFont && float64(glyphs)*size*0.55 > maxWidth {
		size -= 2
	}
	return maxF(size, minColumnFont)
}

func layoutTide(list *DisplayList, st style, req domain.RenderRequest) {
	const title = "Tide Forecast"
	tides := req.Snapshot.Tides
	if len(tides) == 0 {
		centeredPanel(list, st, title, "No stations specified")
		return
	}
	if len(tides) > domain.MaxTideStations {
		tides = tides[:domain.MaxTideStations]
	}

	w := float64(req.Width)
	h := float64(req.Height)
	padding := maxF(h*0.06, 24)
	innerLeft := padding * 2

	titleSize := maxF(h*0.15, 36)
	y := padding + titleSize
	list.add(TextOp{Text: title, X: innerLeft, Y: y, Size: titleSize, Color: st.Text})
	y += maxF(h*0.04, 16)

	colHeight := h - y - padding
	availableWidth := w - innerLeft - padding
	colWidth := availableWidth / float64(len(tides))
	contentWidth := colWidth - maxF(colWidth*0.05, 10)

	nameSize := maxF(colHeight*0.13, 18)
	labelSize := fitColumnFont(maxF(colHeight*0.12, 16), contentWidth, 9)
	timeSize := fitColumnFont(maxF(colHeight*0.11, minColumnFont), contentWidth, 8)
	iconSize := int(maxF(colHeight*0.35, 48))

	for i, tide := range tides {
		centerX := innerLeft + float64(i)*colWidth + contentWidth/2

		name := tide.StationName
		if name == "" {
			name = fmt.Sprintf("Station %s", tide.StationID)
		}
		if estTextWidth(name, nameSize) > contentWidth {
			name = truncate(name, int(contentWidth/(nameSize*0.55)))
		}
		rowY := y + nameSize
		list.add(TextOp{Text: name, X: centerX, Y: rowY, Size: nameSize, Align: AlignCenter, Color: st.Text})

		// The next extremum is judged against the fetch time, keeping the
		// layout a pure function of the snapshot.
		icon := "unknown"
		label := "No data"
		timeText := "--"
		if event, ok := tide.NextEvent(tide.FetchedAt); ok {
			if event.Type == domain.TideHigh {
				icon, label = "high_tide", "High tide"
			} else {
				icon, label = "low_tide", "Low tide"
			}
			timeText = event.Time.Local().Format("3:04 PM")
		}

		iconY := rowY + maxF(h*0.03, 12)
		list.add(IconOp{Name: icon, X: centerX - float64(iconSize)/2, Y: iconY, Size: iconSize})

		labelY := iconY + float64(iconSize) + maxF(h*0.02, 8) + labelSize
		list.add(TextOp{Text: label, X: centerX, Y: labelY, Size: labelSize, Align: AlignCenter, Color: st.Text})

		timeY := labelY + maxF(h*0.015, 6) + timeSize
		list.add(TextOp{Text: timeText, X: centerX, Y: timeY, Size: timeSize, Align: AlignCenter, Color: st.Text})
	}
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
