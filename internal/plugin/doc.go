// Package plugin manages the lifecycle of built-in plugins: a registration
// table of descriptors and factories, configuration-driven enablement, and
// event subscriptions on behalf of loaded plugins.
//
// Plugins are compiled into the binary and registered explicitly. Discovery
// lists the registration table; it never instantiates. Loading filters by the
// configured policy, instantiates through each factory, and subscribes the
// instances to the event dispatcher in load order. One plugin failing to
// instantiate does not stop the others from loading.
package plugin
