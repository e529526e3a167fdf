// Package normalisers holds the record normalisers that turn archive
// exports into domain documents.
//
// dublincore handles JSON exports of Dublin Core records, the format the
// archive publishes.
package normalisers
