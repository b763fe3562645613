// Package e2e holds the browser suites for BlazeDemo and OpenCart. They
// only build with the e2e tag:
//
//	go test -tags e2e ./e2e -args -browser=chrome -headless -markers=smoke
//
// Pass -demosite to run against the local replica instead of the public
// sites.
package e2e
