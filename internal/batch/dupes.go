package batch

import (
	"mediatools/internal/backend"
	"mediatools/internal/fingerprint"
	"mediatools/internal/pipeline"
)

// DuplicateGroup is a set of inputs judged to hold the same content.
// Exact groups share a cryptographic digest; near groups are images whose
// perceptual hashes sit within the configured Hamming distance.
type DuplicateGroup struct {
	Exact bool     `json:"exact"`
	Paths []string `json:"paths"`
}

type hashedFile struct {
	path       string
	sha256     string
	perceptual fingerprint.Perceptual
	hasPHash   bool
}

// FindDuplicates groups report outcomes by content identity. Exact groups
// come first, then near-duplicate groups; byte-identical sets are not
// re-reported as near duplicates. Paths keep input order within each
// group.
func FindDuplicates(outcomes []pipeline.FileOutcome, threshold int) []DuplicateGroup {
	var files []hashedFile
	for _, outcome := range outcomes {
		art, ok := outcome.ArtifactFor(backend.SlotDedup)
		if !ok || art.Hash == nil {
			continue
		}
		hf := hashedFile{path: outcome.Path, sha256: art.Hash.SHA256}
		if art.Hash.Perceptual != "" {
			if p, err := fingerprint.ParsePerceptual(art.Hash.Perceptual); err == nil {
				hf.perceptual = p
				hf.hasPHash = true
			}
		}
		files = append(files, hf)
	}

	var groups []DuplicateGroup

	// Exact groups by cryptographic digest, in first-seen order.
	byDigest := make(map[string][]int)
	var digestOrder []string
	for i, f := range files {
		if _, seen := byDigest[f.sha256]; !seen {
			digestOrder = append(digestOrder, f.sha256)
		}
		byDigest[f.sha256] = append(byDigest[f.sha256], i)
	}
	for _, digest := range digestOrder {
		members := byDigest[digest]
		if len(members) < 2 {
			continue
		}
		group := DuplicateGroup{Exact: true}
		for _, i := range members {
			group.Paths = append(group.Paths, files[i].path)
		}
		groups = append(groups, group)
	}

	// Near groups by perceptual distance, clustered with union-find.
	parent := make([]int, len(files))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := 0; i < len(files); i++ {
		if !files[i].hasPHash {
			continue
		}
		for j := i + 1; j < len(files); j++ {
			if !files[j].hasPHash {
				continue
			}
			dist, err := files[i].perceptual.Distance(files[j].perceptual)
			if err != nil || dist > threshold {
				continue
			}
			parent[find(i)] = find(j)
		}
	}

	clusters := make(map[int][]int)
	var clusterOrder []int
	for i := range files {
		if !files[i].hasPHash {
			continue
		}
		root := find(i)
		if _, seen := clusters[root]; !seen {
			clusterOrder = append(clusterOrder, root)
		}
		clusters[root] = append(clusters[root], i)
	}
	for _, root := range clusterOrder {
		members := clusters[root]
		if len(members) < 2 {
			continue
		}
		// Skip clusters already fully covered by one exact group.
		digest := files[members[0]].sha256
		identical := true
		for _, i := range members[1:] {
			if files[i].sha256 != digest {
				identical = false
				break
			}
		}
		if identical {
			continue
		}
		group := DuplicateGroup{}
		for _, i := range members {
			group.Paths = append(group.Paths, files[i].path)
		}
		groups = append(groups, group)
	}

	return groups
}
