// Package services implements the extraction core.
//
// A run reads a bounded window of pull requests, the most recent commit of
// each, and (in pr mode) issues from a [driven.RepositorySource]. Every
// remote call goes through a [RateGovernor], which waits out quota
// exhaustion and retries the same call, so the index being read never
// advances past a rate limited item. Records are normalised into fragments,
// joined by position into rows by [AlignRows], and handed to a
// [driven.RowSink].
//
// Runs are sequential. No state is shared between runs.
package services
