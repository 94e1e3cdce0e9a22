// Package cmd implements the kcfctl command tree.
package cmd
