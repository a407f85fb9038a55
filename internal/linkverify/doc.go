// Package linkverify checks the links of a rendered site against the files
// in its output tree. It reports empty link targets and relative targets
// that do not exist; external links are never fetched.
package linkverify
