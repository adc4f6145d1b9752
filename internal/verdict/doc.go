// Package verdict maps classification results to presentation categories
// and grades quiz answers.
package verdict
