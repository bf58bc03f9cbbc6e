// Package mcp provides an MCP (Model Context Protocol) server adapter for croissant-toml.
// It lets AI assistants convert and validate Croissant metadata as tools.
package mcp

import "errors"

// ErrMissingConversionService is returned when the conversion service is not provided.
var ErrMissingConversionService = errors.New("mcp: conversion service is required")
