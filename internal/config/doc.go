// Package config loads the fitsdiag configuration from HCL.
//
// A configuration file looks like:
//
//	inputs = ["data/**/*.fits", "archive/*.fits.gz"]
//
//	reader {
//	  max_header_blocks = 64
//	  strict_keywords   = true
//	}
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
//	workers = 4
//
// Every attribute is optional. Values absent from the file keep the defaults
// returned by Default.
package config
