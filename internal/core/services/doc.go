// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SearchService runs the ranking engine, ChatService runs the
// conversation state machine on top of it, Responder composes reply
// text, CorpusService imports and indexes the archive and
// SettingsService maps configuration keys onto domain.AppSettings.
package services
