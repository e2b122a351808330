/*
Package ports defines the driven ports (interfaces) for the Toria engine.

These interfaces decouple the conversation core from external implementations,
allowing the engine to work with various document stores, history backends and
language models.

# Key Interfaces

  - PreferenceStore / ItineraryStore: Read-only lookups used by the context router.
  - Generator: The opaque language-model completion boundary.
  - HistoryStore: Responsible for persisting conversation history per thread key.
  - DistributedLocker: Provides distributed locking for concurrent turns on one thread.
*/
package ports
