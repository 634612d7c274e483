package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "NoorWeb/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "NoorWeb"
	AppID             = "com.github.noorweb.noorweb"
	KeyringService    = "com.github.noorweb.noorweb"
	KeyringJWTAccount = "jwt-signing-secret"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagHeadless     = "headless"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescHeadless = "Run the HTTP API without the tray interface"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Persisted Keys (key-value store)
// -----------------------------------------------------------------------------

const (
	KeyLanguage        = "noorweb-lang"
	KeyCity            = "noorweb-city"
	KeyBookmarks       = "noorweb-bookmarks"
	KeySession         = "noorweb-user"
	KeyUsers           = "noorweb-users"
	KeyReadingProgress = "noorweb-reading-progress"
	KeyTasbeeh         = "noorweb-tasbeeh"
	KeyTrackedCities   = "noorweb-cities"
	KeyRamadanCities   = "noorweb-ramadan-cities"
)

// Store drivers selectable through STORE_DRIVER.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPrefs    = "prefs"
	StoreDriverRedis    = "redis"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"

	SQLTableName = "noorweb_kv"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600

	// Preference Keys (desktop only, not shared with the key-value store)
	PrefLanguage        = "language"
	PrefCity            = "city"
	PrefInterval        = "refresh_interval_min"
	PrefServerPort      = "server_port"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefLastRun         = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "ur"}

// -----------------------------------------------------------------------------
// UI Cities Window Constants
// -----------------------------------------------------------------------------

const (
	CitiesWinWidth  = 620
	CitiesWinHeight = 400

	// Table Column IDs
	ColIDCity      = 0
	ColIDLocalTime = 1
	ColIDNext      = 2
	ColIDCountdown = 3
	ColCount       = 4

	// Table Layout
	ColWidthCity      = 200
	ColWidthLocalTime = 110
	ColWidthNext      = 150
	ColWidthCountdown = 110

	TablePlaceholder = "Cell Content"
	ValueUnknown     = "-"
	LogMsgOpenWin    = "Opening cities window"
	LogMsgSorted     = "Cities table sorted"

	// Sort Indicators
	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"

	// CitiesRowFormat renders a prayer name next to its time.
	CitiesRowFormat = "%s %s"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinCities      = "win_cities_title"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuSettings   = "menu_settings"
	TKeyMenuCities     = "menu_cities"
	TKeyTrayStatus     = "tray_status"      // Requires Prayer, Remaining
	TKeyTrayLoading    = "tray_status_wait" // Shown until the first schedule arrives
	TKeyNotifStart     = "notif_sync_start"
	TKeyNotifSuccess   = "notif_sync_success"
	TKeyNotifError     = "notif_err_sync"
	TKeyNotifPrayer    = "notif_prayer_time" // Requires Prayer
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblCity        = "lbl_city"
	TKeyHelpCity       = "help_city"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyHelpInterval   = "help_interval"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblEnableRem   = "lbl_enable_reminders"
	TKeyLblRemBefore   = "lbl_reminder_before"
	TKeyLblNotif       = "lbl_notifications"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyBtnAdd         = "btn_add"
	TKeyBtnRemove      = "btn_remove"
	TKeyLblFooter      = "lbl_footer"
	TKeyEvtSummary     = "event_summary" // Requires Prayer, City
	TKeyCitiesFull     = "cities_full"
	TKeyPrayerFajr     = "prayer_fajr"
	TKeyPrayerSunrise  = "prayer_sunrise"
	TKeyPrayerDhuhr    = "prayer_dhuhr"
	TKeyPrayerAsr      = "prayer_asr"
	TKeyPrayerMaghrib  = "prayer_maghrib"
	TKeyPrayerIsha     = "prayer_isha"
	TKeyPrayerImsak    = "prayer_imsak"
	TKeyPrayerMidnight = "prayer_midnight"

	// Column Headers
	TKeyColCity      = "col_city"
	TKeyColLocalTime = "col_local_time"
	TKeyColNext      = "col_next_prayer"
	TKeyColCountdown = "col_countdown"

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18080"
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultReminderValue = 10
	DefaultCityName      = "Lahore"
	DisabledInterval     = 0
	UIDSalt              = "noorweb-v1-" // Salt for deterministic UID generation

	// DefaultMaxCities bounds the multi-city panel.
	DefaultMaxCities = 6

	// DefaultDuaWindow is the proximity window used to flag Sehri/Iftar as imminent.
	DefaultDuaWindow = 15 * time.Minute

	// TickInterval is the countdown and clock cadence.
	TickInterval = time.Second

	// CompletionThreshold is the remaining duration at which a countdown completes.
	CompletionThreshold = time.Second

	// RolloverMinJump is the growth in remaining time that counts as the
	// target moving to the next day. Smaller jumps are wall-clock shifts.
	RolloverMinJump = 12 * time.Hour

	SecondsPerDay = 86400

	// ZakatRate is the obligatory share of net zakatable wealth.
	ZakatRate = 0.025

	// GuestName is the display name of the guest session.
	GuestName = "مہمان"

	TokenTTL        = 72 * time.Hour
	SecretByteSize  = 32
	MinNameLength   = 2
	MinPasswordLen  = 8
	StrongLengthLen = 12
	DefaultDhikr    = "subhanallah"
)

// DefaultCalculationMethods maps ISO country codes to aladhan calculation methods.
// 1 = University of Islamic Sciences Karachi, 2 = ISNA, 3 = Muslim World League, 4 = Umm al-Qura.
var DefaultCalculationMethods = map[string]int{
	"PK": 1, "IN": 1, "BD": 1,
	"SA": 4, "AE": 4, "QA": 4, "KW": 4, "OM": 4, "BH": 4,
	"GB": 3,
	"US": 2, "CA": 2,
}

// DefaultHijriAdjustments maps ISO country codes to a Hijri day offset.
var DefaultHijriAdjustments = map[string]int{
	"PK": -1, "IN": -1, "BD": -1,
}

const (
	// MethodFallback applies to country codes absent from the method table.
	MethodFallback = 3
	// MethodNoCountry applies when a location carries no country code.
	MethodNoCountry = 1
)

// PasswordSpecialChars is the accepted set of special characters for passwords.
const PasswordSpecialChars = `@!#$%^&*()_+-=[]{}|;:,.<>?`

// ValidEmailSuffixes lists the accepted top-level domains for registration.
var ValidEmailSuffixes = []string{".com", ".net", ".org", ".pk", ".edu", ".gov", ".io", ".co"}

// -----------------------------------------------------------------------------
// Providers
// -----------------------------------------------------------------------------

const (
	AladhanBaseURL = "https://api.aladhan.com/v1"
	QuranBaseURL   = "https://api.alquran.cloud/v1"
	HadithBaseURL  = "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1"

	DefaultTranslation = "ur.jalandhry"
	DefaultReciter     = "ar.alafasy"
	ArabicEdition      = "quran-uthmani"

	HadithEditionUrdu    = "urd"
	HadithEditionArabic  = "ara"
	HadithEditionEnglish = "eng"

	AladhanDateLayout = "02-01-2006"
	AladhanStatusOK   = 200

	RouteTimingsByCity  = "/timingsByCity/%s"
	RouteCalendarByCity = "/calendarByCity/%d/%d"
	RouteHijriCalendar  = "/gToHCalendar/%d/%d"
	RouteQiblaDirection = "/qibla/%s/%s"
	RouteSurah          = "/surah/%d"
	RouteSurahEdition   = "/surah/%d/%s"
	RouteAyahEdition    = "/ayah/%d:%d/%s"
	RouteQuranSearch    = "/search/%s/%s"
	RouteHadithSection  = "/editions/%s-%s/sections/%d.json"

	ParamCity       = "city"
	ParamCountry    = "country"
	ParamMethod     = "method"
	ParamAdjustment = "adjustment"

	ProviderAladhan = "aladhan"
	ProviderQuran   = "alquran"
	ProviderHadith  = "hadith"

	MinSurah = 1
	MaxSurah = 114
)

// HadithBooks lists the collections served by the Hadith CDN.
var HadithBooks = []string{"bukhari", "muslim", "abudawud", "tirmidhi", "nasai", "ibnmajah"}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//NoorWeb//Prayer Times//EN"
	ICalCalName   = "Prayer Times"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "noorweb"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropLocation    = "LOCATION"

	DefaultICalRefresh = 1 * time.Hour
	PrayerEventLength  = 20 * time.Minute

	// ISO8601 duration pieces for alarm triggers.
	ISONegativePrefix = "-PT"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatDay   = "2006-01-02"
	ClockFormat     = "15:04:05"
	TimeOfDayFormat = "%02d:%02d"
	CountdownFormat = "%02d:%02d:%02d"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s@%s"

	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	StoreTimeout        = 5 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	MQTTDisconnectQuiesce = 250 // milliseconds
	MQTTPublishTimeout    = 2 * time.Second
	MQTTTopicTick         = "noorweb/cities/%s/tick"
	MQTTClientIDFormat    = "noorweb-%s"
)

// -----------------------------------------------------------------------------
// HTTP Routes
// -----------------------------------------------------------------------------

const (
	RouteCalendar       = "/calendar.ics"
	RouteMetrics        = "/metrics"
	RouteAPI            = "/api"
	RoutePrayer         = "/prayer"
	RouteRamadan        = "/ramadan"
	RouteRamadanCities  = "/ramadan/cities"
	RouteCities         = "/cities"
	RouteCatalog        = "/cities/catalog"
	RouteBookmarks      = "/bookmarks"
	RouteBookmarkGroups = "/bookmarks/groups"
	RoutePrefLanguage   = "/preferences/language"
	RoutePrefCity       = "/preferences/city"
	RouteProgress       = "/progress"
	RouteTasbeeh        = "/tasbeeh/:dhikr"
	RouteTasbeehInc     = "/tasbeeh/:dhikr/increment"
	RouteZakat          = "/zakat"
	RouteQuran          = "/quran/:surah"
	RouteHadith         = "/hadith/:book/:section"
	RouteQibla          = "/qibla"
	RouteHijri          = "/hijri/:year/:month"
	RouteAuthRegister   = "/auth/register"
	RouteAuthLogin      = "/auth/login"
	RouteAuthGuest      = "/auth/guest"
	RouteAuthLogout     = "/auth/logout"
	RouteAuthMe         = "/auth/me"
	RouteAyahAudio      = "/quran/:surah/:ayah/audio"
	RouteQuranFind      = "/search/quran"
	RouteHealth         = "/healthz"

	PathDhikr   = "dhikr"
	PathSurah   = "surah"
	PathAyah    = "ayah"
	PathBook    = "book"
	PathSection = "section"
	PathYear    = "year"
	PathMonth   = "month"

	QueryCity     = "city"
	QueryBy       = "by"
	QueryLat      = "lat"
	QueryLon      = "lon"
	QueryEdition  = "edition"
	QuerySurah    = "surah"
	QueryAyah     = "ayah"
	QueryText     = "q"
	QueryReciter  = "reciter"
	GroupBySurah  = "surah"
	GroupByDate   = "date"
	CtxKeyClaims  = "claims"
	BearerPrefix  = "Bearer "
	HeaderAuth    = "Authorization"
	HeaderRequest = "X-Request-ID"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrLocNotInit       = "localizer not initialized"
	ErrSettingsLoad     = "failed to load runtime settings"

	ErrProviderUnavailable = "provider unavailable"
	ErrProviderStatus      = "provider returned unexpected status"
	ErrProviderMalformed   = "provider returned a malformed payload"
	ErrBadCoordinates      = "coordinates out of range"
	ErrBadSurah            = "surah number out of range"
	ErrBadBook             = "unknown hadith collection"
	ErrRequestBuild        = "failed to create request"
	ErrFetcherMissing      = "internal error: schedule fetcher is not initialized"

	ErrIncompleteSchedule = "schedule is missing a required event"
	ErrUnknownEvent       = "schedule contains an unknown event"
	ErrBadTime            = "unable to parse time of day"
	ErrSuperseded         = "result superseded by a newer request"
	ErrUnknownCity        = "unknown city"
	ErrNegativeAmount     = "amounts must not be negative"

	ErrStoreOpen      = "failed to open store backend"
	ErrStoreWrite     = "failed to write store entry"
	ErrStoreRead      = "failed to read store entry"
	ErrStoreDelete    = "failed to delete store entry"
	ErrStoreEncode    = "failed to encode store value"
	ErrStoreDriver    = "unsupported store driver"
	ErrStoreMigrate   = "failed to prepare store schema"
	ErrUnsupportedLng = "unsupported language"

	ErrInvalidCredentials = "invalid email or password"
	ErrUserExists         = "an account with this email already exists"
	ErrValidation         = "validation failed"
	ErrInvalidToken       = "invalid token"
	ErrSecretLoad         = "failed to load signing secret"
	ErrNotAuthenticated   = "not authenticated"

	ErrMQTTConnect = "failed to connect to MQTT broker"
	ErrMQTTPublish = "failed to publish tick"
)

// Validation messages surfaced to users (mirroring the Urdu-first product copy).
const (
	MsgEmailRequired    = "ای میل درج کریں"
	MsgEmailInvalid     = "درست ای میل درج کریں"
	MsgEmailDomain      = "درست ڈومین والا ای میل درج کریں"
	MsgPasswordShort    = "پاس ورڈ کم از کم 8 حروف کا ہونا چاہیے"
	MsgPasswordUpper    = "پاس ورڈ میں ایک بڑا حرف ہونا چاہیے"
	MsgPasswordDigit    = "پاس ورڈ میں ایک نمبر ہونا چاہیے"
	MsgPasswordSpecial  = "پاس ورڈ میں ایک خاص حرف ہونا چاہیے (@, !, #, $)"
	MsgPasswordRequired = "پاس ورڈ درج کریں"
	MsgNameShort        = "نام کم از کم 2 حروف کا ہونا چاہیے"

	StrengthWeak       = "weak"
	StrengthMedium     = "medium"
	StrengthStrong     = "strong"
	StrengthWeakUrdu   = "کمزور"
	StrengthMediumUrdu = "درمیانہ"
	StrengthStrongUrdu = "مضبوط"

	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"

	MsgGeolocationDenied = "location unavailable: provide lat and lon to retry"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgRetry        = "upstream provider failed, retry later"
	HTTPMsgBadRequest   = "invalid request"
	HTTPMsgNotFound     = "not found"
	HTTPMsgUnauthorized = "missing or invalid bearer token"
	HTTPMsgConflict     = "already exists"
	HTTPMsgInternal     = "internal error"
	RespKeyError        = "error"
	RespKeyRetry        = "retry"
	RespKeyChanged      = "changed"
	RespKeyFields       = "fields"
	RespKeyToken        = "token"
	RespKeyUser         = "user"
	RespKeyCities       = "cities"
	RespKeyCount        = "count"
	RespKeyValue        = "value"
	RespKeyURL          = "url"
	RespKeyDirection    = "direction"
	RespKeyStatus       = "status"
	RespKeyBookmarks    = "bookmarks"
	StatusOK            = "ok"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "%s (%s)"
	FallbackTrayError  = "NoorWeb: Sync Error"
	FallbackTrayLabel  = "NoorWeb"
	FallbackTrayStatus = "%s in %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"

	MsgPortBusy        = "Port %s is busy or unavailable."
	MsgSyncSuccess     = "Schedule refresh completed successfully."
	MsgSyncStarted     = "Schedule refresh started"
	MsgSyncFailed      = "Schedule refresh failed"
	MsgSyncReq         = "Refresh requested"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgUpdateSync      = "Updating refresh interval"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgGenSuccess      = "Calendar generation successful"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgZoneFallback    = "Invalid timezone, falling back to host local time"
	MsgStoreCorrupt    = "Corrupt store entry replaced by default"
	MsgStoreReadFail   = "Store read failed, using default"
	MsgStoreOpened     = "Store backend opened"
	MsgFetchStart      = "Provider request"
	MsgFetchStatus     = "Provider returned error status"
	MsgFetchDone       = "Provider response decoded"
	MsgStale           = "Discarding superseded schedule"
	MsgScheduleLoaded  = "Schedule committed"
	MsgCityAdded       = "City tracked"
	MsgCityRemoved     = "City untracked"
	MsgCityRejected    = "City change rejected"
	MsgCityRefreshFail = "City schedule refresh failed"
	MsgCountdownDone   = "Countdown reached target"
	MsgTickerStop      = "Countdown subscription stopped"
	MsgBookmarkAdded   = "Bookmark added"
	MsgBookmarkRemoved = "Bookmark removed"
	MsgBookmarkDup     = "Bookmark already present"
	MsgUserRegistered  = "User registered"
	MsgUserLogin       = "User logged in"
	MsgUserLogout      = "User logged out"
	MsgSecretGenerated = "Generated new signing secret"
	MsgSecretEphemeral = "Keyring unavailable, using ephemeral signing secret"
	MsgMQTTConnected   = "Connected to MQTT broker"
	MsgMQTTLost        = "MQTT connection lost"
	MsgMQTTPublishFail = "Tick publish failed"
	MsgMQTTDisabled    = "MQTT broker not configured, tick broadcast disabled"
	MsgHTTPRequest     = "HTTP request"
	MsgEnvFileMissing  = "No .env file loaded"
	MsgHeadless        = "Running headless"
	MsgTrayRetarget    = "Tray countdown moved to the next event"
	MsgPrefPersistFail = "Failed to mirror preference into the store"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"
	LogKeyZone      = "zone"
	LogKeyCity      = "city"
	LogKeyEvent     = "event"
	LogKeyDriver    = "driver"
	LogKeyProvider  = "provider"
	LogKeyOperation = "operation"
	LogKeySeq       = "seq"
	LogKeyLatest    = "latest"
	LogKeySurah     = "surah"
	LogKeyAyah      = "ayah"
	LogKeyTopic     = "topic"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyRequestID = "request_id"
	LogKeyEvents    = "events"
	LogKeyDays      = "days"
	LogKeySortCol   = "sort_col"
	LogKeySortAsc   = "sort_asc"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompEngine    = "engine"
	CompClock     = "clock"
	CompTicker    = "ticker"
	CompCities    = "cities"
	CompLoader    = "loader"
	CompServer    = "server"
	CompAPI       = "api"
	CompProvider  = "provider"
	CompStore     = "store"
	CompAuth      = "auth"
	CompBroadcast = "broadcast"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
	CompConfig    = "config"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
)
