// Package locality annotates outgoing chat turns with where and when the
// user is.
//
// Before a turn is sent to a language model, an [Injector] appends a
// bracketed line with the current time, date, timezone, detected location
// and local weather, according to user [Settings]. Only the model-facing
// text changes; the visible transcript is returned as-is.
//
//	store := jsonfile.New("settings.json")
//	mgr, err := locality.OpenManager(ctx, store)
//	annotator := locality.NewAnnotator(
//		locality.WithLocator(ipgeo.New()),
//		locality.WithWeather(openmeteo.New()),
//	)
//	inj := locality.NewInjector(mgr, annotator)
//	text, visible := inj.ChatInputModifier(ctx, "Hello", "Hello", nil)
//	// text == "Hello\n[Current time: 03:45 PM | Current date: ... ]"
//
// # Core Interfaces
//
//   - [SettingsStore]: persistence for [Settings] (store/jsonfile, store/sqlite, store/postgres)
//   - [Locator]: IP geolocation (provider/ipgeo, [StaticLocator])
//   - [WeatherProvider]: current conditions (provider/openmeteo)
//   - [TurnProcessor]: per-turn rewrite hook, chained with [ProcessorChain]
//
// Lookups are best effort: one attempt per turn, bounded by a timeout, with
// failures rendered as fixed placeholder text. Settings changes flow through
// [Manager.Apply] as [SettingChanged] messages and are saved immediately.
package locality
