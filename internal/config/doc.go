// Package config provides centralized configuration for the thermal logger
// report generator. Settings are loaded from environment variables with the
// THERM prefix, optionally merged with a config.yaml file, and validated
// before use.
//
// Report settings (face/core grouping windows, furnace channel bounds,
// downsample tolerance) seed the generated workbook's Config sheet; the
// workbook remains recomputable if those cells are edited afterwards.
package config
