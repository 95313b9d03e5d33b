// Package webhook receives Notion change notifications and turns them into
// sync runs.
//
// Deliveries are authenticated with an HMAC-SHA256 signature over the raw
// body, filtered so only payloads referencing the mirrored database count,
// and then dispatched as a detached forced sync so the HTTP response returns
// immediately. Run-overlap protection lives in the sync runner, not here.
package webhook
