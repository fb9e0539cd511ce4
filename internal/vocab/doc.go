// Package vocab records which characters were translated during a run, how
// often, and in which files. The collected vocabulary feeds the Anki export.
package vocab
