// Package placement positions the park's benches, lamps and trees.
//
// Benches and lamps are driven by curve tangents: a bench turns to face along
// its path and sits a fixed distance off the centerline; lamps stand beside
// every d-th interior sample and are then pruned until no two are closer than
// [LampSeparation]. Trees are scattered uniformly over the domain.
//
// Every location produced here is provisional. Vertical components are
// rewritten by terrain.Field.Resnap once the ground has been perturbed.
package placement
