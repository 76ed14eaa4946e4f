// Package doctor diagnoses the ghm environment and data files.
//
// Checks fall into three categories: environment (gh CLI present and
// authenticated), configuration (the config file parses and validates),
// and data (the cache files are readable, within their size cap, and
// free of stale freshness records). Issues that can be repaired
// mechanically declare a fix action applied by --fix; everything else is
// reported for manual attention.
package doctor
