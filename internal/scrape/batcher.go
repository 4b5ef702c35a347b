package scrape

// DomainFairBatches groups items by domain, preserving per-domain arrival
// order, and emits batches such that no batch contains two items from the
// same domain. Each round takes one item from each domain group that still
// has items, walking domains in first-seen order; a round ends early at
// the first exhausted domain it meets after contributing at least one
// item, or once maxBatch items have been taken.
//
// maxBatch <= 0 selects dynamic sizing: the batch grows to the number of
// live domains each round, so no item ever waits behind a same-domain
// item. With a fixed maxBatch smaller than the live-domain count, only
// that many domains contribute per round and the rest roll over - a
// throughput/fairness trade-off kept from the original policy rather than
// a correctness requirement.
//
// Flattened output is a permutation of the input. Batch order and
// intra-batch order are deterministic given deterministic input order.
func DomainFairBatches(items []*DiscoveredItem, maxBatch int) [][]*DiscoveredItem {
	if len(items) == 0 {
		return nil
	}

	groups := make(map[string][]*DiscoveredItem)
	order := make([]string, 0)
	for _, item := range items {
		if _, seen := groups[item.Domain]; !seen {
			order = append(order, item.Domain)
		}
		groups[item.Domain] = append(groups[item.Domain], item)
	}

	var batches [][]*DiscoveredItem
	remaining := len(items)
	for remaining > 0 {
		var batch []*DiscoveredItem
		for _, domain := range order {
			queue := groups[domain]
			if len(queue) == 0 {
				if len(batch) > 0 {
					break
				}
				continue
			}
			batch = append(batch, queue[0])
			groups[domain] = queue[1:]
			remaining--
			if maxBatch > 0 && len(batch) >= maxBatch {
				break
			}
		}
		batches = append(batches, batch)
	}
	return batches
}
