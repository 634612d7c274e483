package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	citySelect    *widget.Select
	entryInterval *NumericalEntry
	entryPort     *NumericalEntry
	checkReminder *widget.Check
	entryRemValue *NumericalEntry
}

// ShowSettingsWindow displays the configuration dialog.
func (app *NoorWebApp) ShowSettingsWindow() {
	if app.Window != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.Window.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	// --- General Section ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemCity := widget.NewFormItem(app.GetMsg(config.TKeyLblCity), sw.citySelect)
	itemCity.HintText = app.GetMsg(config.TKeyHelpCity)

	widInterval := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), widInterval)
	itemInterval.HintText = app.GetMsg(config.TKeyHelpInterval)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalForm := widget.NewForm(itemLang, itemCity, itemInterval, itemPort)
	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", generalForm)

	notifCard := app.buildNotifCard(sw, onLayoutChange)

	// --- Actions ---
	saveAction := func() {
		// Only the Port field blocks saving when invalid.
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		notifCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets builds the form inputs pre-filled from preferences.
func (app *NoorWebApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.citySelect = widget.NewSelect(engine.CityNames(), nil)
	sw.citySelect.SetSelected(app.selectedCity().Name)

	// Empty or "0" disables auto-refresh on save.
	sw.entryInterval = NewNumericalEntry()
	sw.entryInterval.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)))

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.validatePort

	sw.checkReminder = widget.NewCheck(app.GetMsg(config.TKeyLblEnableRem), nil)
	sw.checkReminder.Checked = app.Preferences.Bool(config.PrefReminderEnabled)

	sw.entryRemValue = NewNumericalEntry()
	sw.entryRemValue.SetText(strconv.Itoa(app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))

	return sw
}

// validatePort accepts a TCP port in [MinPort, MaxPort].
func (app *NoorWebApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
	if port < config.MinPort || port > config.MaxPort {
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// buildNotifCard constructs the reminder UI.
func (app *NoorWebApp) buildNotifCard(sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	row := container.NewBorder(nil, nil, nil, widget.NewLabel(app.GetMsg(config.TKeyLblRemBefore)), sw.entryRemValue)

	sw.checkReminder.OnChanged = func(b bool) {
		if b {
			row.Show()
		} else {
			row.Hide()
		}
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	if sw.checkReminder.Checked {
		row.Show()
	} else {
		row.Hide()
	}

	return widget.NewCard(app.GetMsg(config.TKeyLblNotif), "", container.NewVBox(sw.checkReminder, row))
}

// saveSettings persists the form and triggers a refresh.
func (app *NoorWebApp) saveSettings(sw *settingsWidgets) {
	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	if app.Prefs != nil && sw.langSelect.Selected != "" {
		if err := app.Prefs.SetLanguage(app.Ctx, sw.langSelect.Selected); err != nil {
			slog.Warn(config.MsgPrefPersistFail, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	previousCity := app.selectedCity().Name
	if sw.citySelect.Selected != "" {
		app.Preferences.SetString(config.PrefCity, sw.citySelect.Selected)
		if app.Prefs != nil {
			if err := app.Prefs.SetCity(app.Ctx, sw.citySelect.Selected); err != nil {
				slog.Warn(config.MsgPrefPersistFail, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
			}
		}
	}

	// Empty or 0 disables auto-refresh.
	if i, ok := sw.entryInterval.IntValue(); ok && i > 0 {
		app.Preferences.SetInt(config.PrefInterval, i)
	} else {
		app.Preferences.SetInt(config.PrefInterval, config.DisabledInterval)
		slog.Info("Auto-refresh disabled via settings", config.LogKeyComponent, config.CompUISet)
	}

	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	// An empty value disables reminders even if the box is checked.
	if v, ok := sw.entryRemValue.IntValue(); ok {
		app.Preferences.SetBool(config.PrefReminderEnabled, sw.checkReminder.Checked)
		app.Preferences.SetInt(config.PrefReminderValue, v)
	} else {
		app.Preferences.SetBool(config.PrefReminderEnabled, false)
		slog.Info("Reminders disabled via settings (value is empty)", config.LogKeyComponent, config.CompUISet)
	}

	app.UpdateLocalizer()
	app.RefreshTrayMenu()

	if app.selectedCity().Name != previousCity {
		app.stopCountdown()
		app.setTrayLabel(app.GetMsg(config.TKeyTrayLoading))
	}
	go app.performSync(true)
}
