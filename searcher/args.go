package searcher

// Defaults for the exhaustive search

const CheckInterval = 1024 // Expansions between context/deadline polls

const Unlimited = 0 // No expansion budget
