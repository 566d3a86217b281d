package engine

// WorldAccess lets components spawn and remove objects, such as the shadow
// planes a caster owns, without importing the world package.
type WorldAccess interface {
	SpawnObject(g *GameObject)
	Destroy(g *GameObject)
}
