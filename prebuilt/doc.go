// Package prebuilt provides ready-made agents assembled from the workflow,
// memory and validate packages: a reflexion agent that learns across tasks
// and a reflection agent that refines single responses through self-critique.
package prebuilt
