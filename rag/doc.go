// Package rag implements a retrieval-augmented generation pipeline:
// documents are loaded, split into chunks, embedded and stored in a vector
// store; each query retrieves the most similar chunks as context for the
// model.
//
// The subpackages provide concrete components (splitter, loader, store,
// retriever), and the adapters in this package bridge langchaingo's
// document loaders, text splitters and embedders to the pipeline's
// interfaces.
package rag
