// Package conversation decides what a user utterance is and how it relates
// to earlier turns.
//
// The Classifier separates casual conversation from document queries. The
// Detector reads follow-up messages after a search. The Comparator diffs a
// new result list against what the user has already seen.
//
// Patterns are written in natural Spanish spelling. They are compiled with
// diacritics removed and matched against lowercased, diacritic-free text, so
// "días" and "dias" behave the same and \b works on ASCII word boundaries.
package conversation
