// Package utils loads layered gitfleet configuration with viper and builds the
// zap diagnostic logger.
package utils
