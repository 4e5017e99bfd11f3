package internal

/*
	fsinfo --> filesystem probes used while resolving patterns.

	** Rules
	1 - a path that does not exist is never an error, it is reported as absent.
	2 - Stat follows symlinks, a dangling link is reported as the link itself (callers classify it as not found).
	3 - ReadDir / Walk take a keep function, Walk still visits the descendants of a rejected directory.
*/
