package qp

// CacheBuilds exposes the structure build counters of the P and A evaluators.
func CacheBuilds(p *ParamQuadProg) (pBuilds, aBuilds int) {
	return p.reducedP.Builds(), p.reducedA.Builds()
}
