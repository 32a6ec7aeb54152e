// Package wb calls the Wildberries seller APIs (marketplace, statistics,
// feedbacks, content). Every fetch returns typed records or an error that
// classifies as transient or persistent, so poll loops can decide between
// silent retry and a one-shot operator notification.
package wb
