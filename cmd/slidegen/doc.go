// Command slidegen assembles carousel posts from local image folders.
//
// "slidegen generate" runs one pipeline pass and writes the post JSON (plus an
// HTML preview). Supporting commands inspect catalogs, list past runs, import
// raw image drops, run readiness checks, and manage the configuration file.
package main
