package sources

import "time"

// SetNow overrides the parser clock in tests.
func (p *StorefrontPage) SetNow(now func() time.Time) { p.now = now }

// SetNow overrides the parser clock in tests.
func (n *News) SetNow(now func() time.Time) { n.now = now }
