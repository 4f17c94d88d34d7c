// Package files finds dataset files on disk.
//
// Discovery lists the CSV and XLSX datasets in a directory, oldest first,
// leaving out Office lock files and the artifacts a previous run wrote.
// ResolveDataset lets the input be either a file or a directory; for a
// directory the most recently modified dataset wins.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	input, err := discovery.ResolveDataset("tmdb")
package files
