// Package report renders scan reports, fraud case batches and quiz
// questions as terminal text, JSON, or GitHub-flavored Markdown.
package report
