package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
)

// ShowCitiesWindow displays the tracked cities with their local time, next
// prayer and countdown. Only one instance is open at a time; the table is
// refreshed every tick while the window is visible.
func (app *NoorWebApp) ShowCitiesWindow() {
	if app.citiesWindow != nil {
		app.citiesWindow.RequestFocus()
		return
	}
	if app.Aggregator == nil {
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinCities))
	app.citiesWindow = w
	w.Resize(fyne.NewSize(config.CitiesWinWidth, config.CitiesWinHeight))

	display := app.Aggregator.Entries()

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(display))

	currentSortCol := config.ColIDCity
	sortAsc := true
	selectedRow := -1

	table := widget.NewTable(
		func() (int, int) {
			return len(display), config.ColCount
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(display) {
				return
			}
			label.SetText(app.cellText(display[id.Row], id.Col))
		},
	)

	var reload func()

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		text := app.GetMsg(columnKey(id.Col))
		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			reload()
		}
	}
	table.OnSelected = func(id widget.TableCellID) {
		selectedRow = id.Row
	}

	table.SetColumnWidth(config.ColIDCity, config.ColWidthCity)
	table.SetColumnWidth(config.ColIDLocalTime, config.ColWidthLocalTime)
	table.SetColumnWidth(config.ColIDNext, config.ColWidthNext)
	table.SetColumnWidth(config.ColIDCountdown, config.ColWidthCountdown)

	reload = func() {
		display = app.Aggregator.Entries()
		sortEntries(display, currentSortCol, sortAsc)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
		table.Refresh()
	}
	sortEntries(display, currentSortCol, sortAsc)

	// --- Add / Remove ---
	citySelect := widget.NewSelect(engine.CityNames(), nil)
	citySelect.PlaceHolder = app.GetMsg(config.TKeyLblCity)

	btnAdd := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAdd), theme.ContentAddIcon(), func() {
		if citySelect.Selected == "" {
			return
		}
		if !app.addCity(citySelect.Selected) {
			dialog.ShowInformation(app.GetMsg(config.TKeyWinCities), app.GetMsg(config.TKeyCitiesFull), w)
			return
		}
		reload()
	})

	btnRemove := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnRemove), theme.ContentRemoveIcon(), func() {
		if selectedRow < 0 || selectedRow >= len(display) {
			return
		}
		app.Aggregator.Remove(display[selectedRow].Location.Name)
		selectedRow = -1
		table.UnselectAll()
		reload()
	})

	controls := container.NewBorder(nil, nil, nil,
		container.NewHBox(btnAdd, btnRemove),
		citySelect)

	w.SetContent(container.NewBorder(nil, controls, nil, nil, table))

	// Live refresh while the window is open.
	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(config.TickInterval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-app.Ctx.Done():
				return
			case <-t.C:
				fyne.Do(reload)
			}
		}
	}()

	w.SetOnClosed(func() {
		close(stop)
		app.citiesWindow = nil
	})

	w.Show()
}

// addCity tracks a catalog city and fetches its schedule in the background.
// It returns false when the city is unknown, already tracked or the panel is full.
func (app *NoorWebApp) addCity(name string) bool {
	loc, err := engine.FindCity(name)
	if err != nil {
		return false
	}
	if !app.Aggregator.Add(loc) {
		return false
	}
	go app.Aggregator.RefreshCity(app.Ctx, loc.Name)
	return true
}

// cellText renders one table cell.
func (app *NoorWebApp) cellText(e engine.CityEntry, col int) string {
	switch col {
	case config.ColIDCity:
		return e.Location.Name
	case config.ColIDLocalTime:
		if e.LocalTime == "" {
			return config.ValueUnknown
		}
		return e.LocalTime
	case config.ColIDNext:
		if e.Next == nil {
			return config.ValueUnknown
		}
		return fmt.Sprintf(config.CitiesRowFormat, app.prayerName(e.Next.Name), e.Next.Time)
	case config.ColIDCountdown:
		if e.Countdown == "" {
			return config.ValueUnknown
		}
		return e.Countdown
	}
	return ""
}

func columnKey(col int) string {
	switch col {
	case config.ColIDLocalTime:
		return config.TKeyColLocalTime
	case config.ColIDNext:
		return config.TKeyColNext
	case config.ColIDCountdown:
		return config.TKeyColCountdown
	default:
		return config.TKeyColCity
	}
}

// sortEntries orders the table rows. In ascending order, entries without a
// schedule come last on the prayer and countdown columns. Ties fall back to
// the city name.
func sortEntries(entries []engine.CityEntry, col int, asc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return entryLess(entries[i], entries[j], col)
		}
		return entryLess(entries[j], entries[i], col)
	})
}

func entryLess(a, b engine.CityEntry, col int) bool {
	nameLess := strings.ToLower(a.Location.Name) < strings.ToLower(b.Location.Name)

	switch col {
	case config.ColIDLocalTime:
		if a.LocalTime != b.LocalTime {
			return a.LocalTime < b.LocalTime
		}
	case config.ColIDNext, config.ColIDCountdown:
		switch {
		case a.Next == nil && b.Next != nil:
			return false
		case a.Next != nil && b.Next == nil:
			return true
		case a.Next == nil:
			return nameLess
		case col == config.ColIDNext && a.Next.Time != b.Next.Time:
			return a.Next.Time < b.Next.Time
		case col == config.ColIDCountdown && a.Countdown != b.Countdown:
			return a.Countdown < b.Countdown
		}
	}
	return nameLess
}
