// Package ecs bridges grove interaction events into a [Donburi] world.
//
// The adapter is [NewDonburiStore]. Every change of the player's
// interaction tag becomes a typed [grove.InteractionEvent] on
// [InteractionEventType]:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
