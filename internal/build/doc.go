// Package build runs the blog build: load every post, verify anchors and
// cross-post links, write the static site, then record the outcome in metrics,
// the build history and the notification channel.
//
// All entry points (the build command, the serve command's watcher and
// scheduler) go through Service.Run; serve mode serializes runs with a Worker.
package build
